package repositories

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
	CountPosts(ctx context.Context) (int64, error)
	ListFeed(ctx context.Context, viewerID uint, offset, limit int) ([]models.PostStats, error)
	ListByAuthor(ctx context.Context, authorID, viewerID uint) ([]models.PostStats, error)
	GetPostStats(ctx context.Context, id, viewerID uint) (*models.PostStats, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes the post together with its likes, comments and the
// notifications that point at it. Returns gorm.ErrRecordNotFound if nothing was deleted.
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *PostgresPostRepository) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

// statsSelect annotates each post with counts computed by the store; the
// caller's like flag is false when viewerID is 0.
const statsSelect = `
	SELECT p.id, p.author_id, p.content, p.image_url, p.created_at,
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
		EXISTS (SELECT 1 FROM likes lm WHERE lm.post_id = p.id AND lm.user_id = ?) AS liked_by_me
	FROM posts p`

func (r *PostgresPostRepository) ListFeed(ctx context.Context, viewerID uint, offset, limit int) ([]models.PostStats, error) {
	var rows []models.PostStats
	err := r.db.WithContext(ctx).
		Raw(statsSelect+` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`, viewerID, limit, offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresPostRepository) ListByAuthor(ctx context.Context, authorID, viewerID uint) ([]models.PostStats, error) {
	var rows []models.PostStats
	err := r.db.WithContext(ctx).
		Raw(statsSelect+` WHERE p.author_id = ? ORDER BY p.created_at DESC, p.id DESC`, viewerID, authorID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresPostRepository) GetPostStats(ctx context.Context, id, viewerID uint) (*models.PostStats, error) {
	var rows []models.PostStats
	err := r.db.WithContext(ctx).
		Raw(statsSelect+` WHERE p.id = ?`, viewerID, id).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}
