package optimistic

import (
	"context"
	"sync"

	"github.com/anonto42/pulse/backend/internal/models"
)

type CommentAPI interface {
	CreateComment(ctx context.Context, postID uint, req models.CreateCommentRequest) (*models.CommentView, error)
}

// Composer is a comment box: submitting clears the draft at once and puts it
// back if the server rejects the comment.
type Composer struct {
	api    CommentAPI
	postID uint

	mu    sync.Mutex
	draft string

	widget *Widget[string]
	posted []models.CommentView
}

func NewComposer(api CommentAPI, postID uint, refresh func(context.Context)) *Composer {
	c := &Composer{api: api, postID: postID}
	c.widget = NewWidget("", c.submit, refresh)
	return c
}

func (c *Composer) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Draft is the text currently in the box.
func (c *Composer) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.widget.State().Pending {
		return ""
	}
	return c.draft
}

func (c *Composer) Pending() bool {
	return c.widget.State().Pending
}

// Posted lists the comments this composer created, oldest first.
func (c *Composer) Posted() []models.CommentView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CommentView(nil), c.posted...)
}

// Submit sends the draft. On failure the draft is restored and the error returned.
func (c *Composer) Submit(ctx context.Context) (*models.CommentView, error) {
	c.mu.Lock()
	text := c.draft
	c.mu.Unlock()

	if _, err := c.widget.Apply(ctx, text); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = ""
	return &c.posted[len(c.posted)-1], nil
}

func (c *Composer) submit(ctx context.Context, text string) (string, error) {
	view, err := c.api.CreateComment(ctx, c.postID, models.CreateCommentRequest{Content: text})
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.posted = append(c.posted, *view)
	c.mu.Unlock()
	return "", nil
}
