// Package responses defines the wire models returned by the API and the
// explicit mapping functions from persistence entities. Mapping is written
// by hand per pair so the wire shape never drifts silently when an entity
// gains a column.
package responses

import (
	"time"

	"github.com/lidosole/lidosole/app/models"
)

// TokenPair is the result of login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type User struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUser(m models.User) User {
	return User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Role:      m.Role,
		Verified:  m.Verified,
		CreatedAt: m.CreatedAt,
	}
}

type Category struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewCategory(m models.Category) Category {
	return Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func NewCategoryList(ms []models.Category) []Category {
	out := make([]Category, len(ms))
	for i, m := range ms {
		out[i] = NewCategory(m)
	}
	return out
}

type Product struct {
	ID          uint      `json:"id"`
	CategoryID  uint      `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    *int      `json:"quantity"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewProduct(m models.Product) Product {
	return Product{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		Quantity:    m.Quantity,
		Price:       m.Price,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func NewProductList(ms []models.Product) []Product {
	out := make([]Product, len(ms))
	for i, m := range ms {
		out[i] = NewProduct(m)
	}
	return out
}

type CartItem struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Notes     string  `json:"notes"`
}

type Cart struct {
	ID     uint       `json:"id"`
	UserID uint       `json:"userId"`
	Items  []CartItem `json:"items"`
	Total  float64    `json:"total"`
}

func NewCart(m models.Cart) Cart {
	out := Cart{ID: m.ID, UserID: m.UserID, Items: make([]CartItem, len(m.Items))}
	for i, it := range m.Items {
		out.Items[i] = CartItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Notes:     it.Notes,
		}
		out.Total += it.Price * float64(it.Quantity)
	}
	return out
}

type OrderDetail struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Notes     string  `json:"notes"`
}

type Order struct {
	ID      uint          `json:"id"`
	UserID  uint          `json:"userId"`
	Status  string        `json:"status"`
	Date    time.Time     `json:"date"`
	Total   float64       `json:"total"`
	Details []OrderDetail `json:"details"`
}

func NewOrder(m models.Order) Order {
	out := Order{
		ID:      m.ID,
		UserID:  m.UserID,
		Status:  m.Status,
		Date:    m.Date,
		Details: make([]OrderDetail, len(m.Details)),
	}
	for i, d := range m.Details {
		out.Details[i] = OrderDetail{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Price:     d.Price,
			Notes:     d.Notes,
		}
		out.Total += d.Price * float64(d.Quantity)
	}
	return out
}

func NewOrderList(ms []models.Order) []Order {
	out := make([]Order, len(ms))
	for i, m := range ms {
		out[i] = NewOrder(m)
	}
	return out
}

type Umbrella struct {
	ID     uint   `json:"id"`
	Letter string `json:"letter"`
	Number int    `json:"number"`
	Busy   bool   `json:"busy"`
}

func NewUmbrella(m models.Umbrella) Umbrella {
	return Umbrella{ID: m.ID, Letter: m.Letter, Number: m.Number, Busy: m.Busy}
}

func NewUmbrellaList(ms []models.Umbrella) []Umbrella {
	out := make([]Umbrella, len(ms))
	for i, m := range ms {
		out[i] = NewUmbrella(m)
	}
	return out
}

type Reservation struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"userId"`
	UmbrellaID uint      `json:"umbrellaId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Notes      string    `json:"notes"`
	Price      *float64  `json:"price"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewReservation(m models.Reservation) Reservation {
	return Reservation{
		ID:         m.ID,
		UserID:     m.UserID,
		UmbrellaID: m.UmbrellaID,
		Start:      m.Start,
		End:        m.End,
		Notes:      m.Notes,
		Price:      m.Price,
		CreatedAt:  m.CreatedAt,
	}
}

func NewReservationList(ms []models.Reservation) []Reservation {
	out := make([]Reservation, len(ms))
	for i, m := range ms {
		out[i] = NewReservation(m)
	}
	return out
}

type Subscription struct {
	ID     uint      `json:"id"`
	UserID uint      `json:"userId"`
	Start  time.Time `json:"start"`
	Finish time.Time `json:"finish"`
	Price  float64   `json:"price"`
	Status string    `json:"status"`
	Notes  string    `json:"notes"`
}

func NewSubscription(m models.Subscription) Subscription {
	return Subscription{
		ID:     m.ID,
		UserID: m.UserID,
		Start:  m.Start,
		Finish: m.Finish,
		Price:  m.Price,
		Status: m.Status,
		Notes:  m.Notes,
	}
}

func NewSubscriptionList(ms []models.Subscription) []Subscription {
	out := make([]Subscription, len(ms))
	for i, m := range ms {
		out[i] = NewSubscription(m)
	}
	return out
}

type Comment struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	Score     int       `json:"score"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewComment(m models.Comment) Comment {
	return Comment{
		ID:        m.ID,
		UserID:    m.UserID,
		Score:     m.Score,
		Title:     m.Title,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

func NewCommentList(ms []models.Comment) []Comment {
	out := make([]Comment, len(ms))
	for i, m := range ms {
		out[i] = NewComment(m)
	}
	return out
}

type Post struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewPost(m models.Post) Post {
	return Post{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Published: m.Published,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func NewPostList(ms []models.Post) []Post {
	out := make([]Post, len(ms))
	for i, m := range ms {
		out[i] = NewPost(m)
	}
	return out
}

type Image struct {
	ID          uint      `json:"id"`
	Path        string    `json:"path"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewImage(m models.Image, url string) Image {
	return Image{
		ID:          m.ID,
		Path:        m.Path,
		URL:         url,
		Size:        m.Size,
		ContentType: m.ContentType,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
