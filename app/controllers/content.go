package controllers

import (
	"net/http"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/services"
	"github.com/lidosole/lidosole/pkg/response"
)

// SubscriptionController serves /api/subscriptions.
type SubscriptionController struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionController(subscriptions *services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptions: subscriptions}
}

func (c *SubscriptionController) Insert(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.Subscription](w, r)
	if !ok {
		return
	}

	sub, err := c.subscriptions.Insert(r.Context(), caller(r).UserID, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, sub)
}

func (c *SubscriptionController) GetList(w http.ResponseWriter, r *http.Request) {
	subs, page, err := c.subscriptions.GetList(r.Context(), ownerScope(caller(r)), pageRequest(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, subs, page)
}

func (c *SubscriptionController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	sub, err := c.subscriptions.Get(r.Context(), ownerScope(caller(r)), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, sub)
}

func (c *SubscriptionController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	req, ok := decode[requests.Subscription](w, r)
	if !ok {
		return
	}

	sub, err := c.subscriptions.Update(r.Context(), ownerScope(caller(r)), id, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, sub)
}

func (c *SubscriptionController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.subscriptions.Delete(r.Context(), ownerScope(caller(r)), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// CommentController serves /api/comments. Reads are public.
type CommentController struct {
	comments *services.CommentService
}

func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

func (c *CommentController) Insert(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.Comment](w, r)
	if !ok {
		return
	}

	comment, err := c.comments.Insert(r.Context(), caller(r).UserID, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, comment)
}

func (c *CommentController) GetList(w http.ResponseWriter, r *http.Request) {
	comments, page, err := c.comments.GetList(r.Context(), pageRequest(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, comments, page)
}

func (c *CommentController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	comment, err := c.comments.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, comment)
}

func (c *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	req, ok := decode[requests.Comment](w, r)
	if !ok {
		return
	}

	comment, err := c.comments.Update(r.Context(), caller(r).UserID, id, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, comment)
}

func (c *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.comments.Delete(r.Context(), ownerScope(caller(r)), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// PostController serves /api/posts. Anonymous readers only see published
// posts; staff see drafts too.
type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

func (c *PostController) Insert(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.Post](w, r)
	if !ok {
		return
	}

	post, err := c.posts.Insert(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, post)
}

func (c *PostController) GetList(w http.ResponseWriter, r *http.Request) {
	p := caller(r)
	publishedOnly := p.Role != models.RoleAdmin && p.Role != models.RolePowerUser

	posts, page, err := c.posts.GetList(r.Context(), publishedOnly, pageRequest(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, posts, page)
}

func (c *PostController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	post, err := c.posts.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, post)
}

func (c *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	req, ok := decode[requests.Post](w, r)
	if !ok {
		return
	}

	post, err := c.posts.Update(r.Context(), id, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, post)
}

func (c *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.posts.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}
