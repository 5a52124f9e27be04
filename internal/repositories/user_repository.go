package repositories

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)
	GetUserStats(ctx context.Context, id uint) (*models.UserStats, error)
	SuggestFromFollowees(ctx context.Context, userID uint, limit int) ([]models.SuggestedUser, error)
	SuggestPopular(ctx context.Context, limit int) ([]models.SuggestedUser, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs returns the users in ids, in no particular order.
func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// SearchUsers matches username or display name, case-insensitively.
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?)", pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresUserRepository) GetUserStats(ctx context.Context, id uint) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM posts WHERE author_id = ?) AS posts_count,
			(SELECT COUNT(*) FROM follows WHERE following_id = ?) AS followers_count,
			(SELECT COUNT(*) FROM follows WHERE follower_id = ?) AS following_count`,
		id, id, id).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

type suggestionRow struct {
	ID             uint
	Username       string
	DisplayName    string
	AvatarURL      string
	FollowersCount int64
	MutualCount    int64
}

func (row suggestionRow) toModel() models.SuggestedUser {
	return models.SuggestedUser{
		UserCompact: models.UserCompact{
			ID:          row.ID,
			Username:    row.Username,
			DisplayName: row.DisplayName,
			AvatarURL:   row.AvatarURL,
		},
		FollowersCount: row.FollowersCount,
		MutualCount:    row.MutualCount,
	}
}

// SuggestFromFollowees walks two hops: users followed by the people userID follows,
// minus userID itself and anyone userID already follows.
func (r *PostgresUserRepository) SuggestFromFollowees(ctx context.Context, userID uint, limit int) ([]models.SuggestedUser, error) {
	var rows []suggestionRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id, u.username, u.display_name, u.avatar_url,
			COUNT(DISTINCT f1.following_id) AS mutual_count,
			(SELECT COUNT(*) FROM follows fc WHERE fc.following_id = u.id) AS followers_count
		FROM follows f1
		JOIN follows f2 ON f2.follower_id = f1.following_id
		JOIN users u ON u.id = f2.following_id
		WHERE f1.follower_id = ?
			AND u.id <> ?
			AND u.id NOT IN (SELECT following_id FROM follows WHERE follower_id = ?)
		GROUP BY u.id, u.username, u.display_name, u.avatar_url
		ORDER BY mutual_count DESC, u.id ASC
		LIMIT ?`,
		userID, userID, userID, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toSuggestions(rows), nil
}

// SuggestPopular orders every user by follower count.
func (r *PostgresUserRepository) SuggestPopular(ctx context.Context, limit int) ([]models.SuggestedUser, error) {
	var rows []suggestionRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id, u.username, u.display_name, u.avatar_url,
			(SELECT COUNT(*) FROM follows fc WHERE fc.following_id = u.id) AS followers_count
		FROM users u
		ORDER BY followers_count DESC, u.id ASC
		LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toSuggestions(rows), nil
}

func toSuggestions(rows []suggestionRow) []models.SuggestedUser {
	out := make([]models.SuggestedUser, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out
}
