package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/models"
	"github.com/socialhub/socialhub/utils"
)

const minPasswordLength = 8

// RegisterInput carries the fields required to open an account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileInput is a partial profile update; nil fields are left untouched.
type ProfileInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	AboutMe   *string
	AvatarURL *string
	Password  *string
}

// AccountStore manages user identity records.
type AccountStore struct {
	db *gorm.DB
}

// NewAccountStore creates a new AccountStore instance.
func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Register creates an account. Uniqueness of username and email is left to the
// unique indexes; a violation is reported as ErrDuplicateAccount.
func (s *AccountStore) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username, err := normalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, validationf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks credentials and returns the matching account.
func (s *AccountStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrUnauthenticated
	}
	return &user, nil
}

// Get loads an account by id.
func (s *AccountStore) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapNotFound(err, "user")
	}
	return &user, nil
}

// ActiveUsername returns the current username of an account. found is false
// when the account no longer exists.
func (s *AccountStore) ActiveUsername(ctx context.Context, id uint) (string, bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "username").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return user.Username, true, nil
}

// Search lists accounts whose username contains the given text, ignoring case.
func (s *AccountStore) Search(ctx context.Context, username string, page Page) ([]models.User, int64, error) {
	username = strings.TrimSpace(username)
	query := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.User{})
		if username != "" {
			q = q.Where(ilike("users.username"), containsPattern(username))
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := query().Scopes(paginate(page)).Order("users.username ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateProfile applies a partial update to the actor's own account.
func (s *AccountStore) UpdateProfile(ctx context.Context, actor Actor, in ProfileInput) (*models.User, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	user, err := s.Get(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username, err := normalizeUsername(*in.Username)
		if err != nil {
			return nil, err
		}
		user.Username = username
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.AboutMe != nil {
		user.AboutMe = utils.Sanitize(*in.AboutMe)
	}
	if in.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, validationf("password must be at least %d characters", minPasswordLength)
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the actor's account and everything that references it in one
// transaction. It returns the photo paths of the removed posts so the caller
// can drop the stored files.
func (s *AccountStore) Delete(ctx context.Context, actor Actor) ([]string, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	var photos []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, actor.UserID).Error; err != nil {
			return mapNotFound(err, "user")
		}

		var posts []models.Post
		if err := tx.Select("id", "photo").Where("user_id = ?", user.ID).Find(&posts).Error; err != nil {
			return err
		}
		postIDs := lo.Map(posts, func(p models.Post, _ int) uint { return p.ID })
		photos = lo.FilterMap(posts, func(p models.Post, _ int) (string, bool) { return p.Photo, p.Photo != "" })

		if err := purgePosts(tx, postIDs); err != nil {
			return err
		}
		for _, m := range []interface{}{&models.Like{}, &models.Dislike{}, &models.Comment{}} {
			if err := tx.Where("user_id = ?", user.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("subscriber_id = ? OR subscribed_id = ?", user.ID, user.ID).
			Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// purgePosts deletes posts together with their comments, reactions and hashtag links.
func purgePosts(tx *gorm.DB, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	for _, m := range []interface{}{&models.Like{}, &models.Dislike{}, &models.Comment{}} {
		if err := tx.Where("post_id IN ?", postIDs).Delete(m).Error; err != nil {
			return err
		}
	}
	if err := tx.Exec("DELETE FROM post_hashtags WHERE post_id IN ?", postIDs).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error
}

func normalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return "", validationf("username must be 3-50 characters")
	}
	if !validUsername(username) {
		return "", validationf("username may contain letters, digits and @.+-_ only")
	}
	return username, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", validationf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validationf("invalid email address")
	}
	return email, nil
}

func validUsername(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("@.+-_", r):
		default:
			return false
		}
	}
	return true
}
