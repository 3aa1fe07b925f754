package token

import (
	"errors"
	"fmt"
	"time"

	"mediastore/domain/model"
	"mediastore/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

// MinSecretBytes is the smallest accepted HS256 key (256 bits).
const MinSecretBytes = 32

var (
	ErrWeakSecret   = fmt.Errorf("token: signing secret must be at least %d bytes", MinSecretBytes)
	ErrInvalidToken = errors.New("token: invalid")
)

type sessionClaims struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
	OAuthProvider   string `json:"oauth_provider"`
	FollowersCount  int64  `json:"followers_count"`
	jwt.StandardClaims
}

type ITokenIssuer interface {
	Issue(p model.Principal, ttl time.Duration) (string, error)
	IssueAccess(p model.Principal) (string, error)
	IssueRefresh(p model.Principal) (string, error)
	Verify(token string) bool
	Claims(token string) (model.Principal, error)
	RefreshTTL() time.Duration
}

// Issuer signs and verifies HS256 session tokens. It holds no state besides
// the key and is safe for concurrent use.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretBytes {
		return nil, ErrWeakSecret
	}
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (i *Issuer) Issue(p model.Principal, ttl time.Duration) (string, error) {
	if p.ID == "" {
		return "", errors.New("token: principal without subject")
	}
	issuedAt := i.now()
	claims := sessionClaims{
		Name:            p.DisplayName,
		Username:        p.Username,
		ProfileImageURL: p.AvatarURL,
		OAuthProvider:   p.Provider,
		FollowersCount:  p.FollowersCount,
		StandardClaims: jwt.StandardClaims{
			Subject:   p.ID,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) IssueAccess(p model.Principal) (string, error) {
	return i.Issue(p, i.accessTTL)
}

func (i *Issuer) IssueRefresh(p model.Principal) (string, error) {
	return i.Issue(p, i.refreshTTL)
}

func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// Verify never fails loudly: every rejection is logged and reported as false.
func (i *Issuer) Verify(token string) bool {
	_, err := i.parse(token)
	if err != nil {
		logRejection(err)
		return false
	}
	return true
}

func (i *Issuer) Claims(token string) (model.Principal, error) {
	c, err := i.parse(token)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return model.Principal{
		ID:             c.Subject,
		DisplayName:    c.Name,
		Username:       c.Username,
		AvatarURL:      c.ProfileImageURL,
		Provider:       c.OAuthProvider,
		FollowersCount: c.FollowersCount,
	}, nil
}

func (i *Issuer) parse(token string) (*sessionClaims, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	var c sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || c.Subject == "" {
		return nil, errors.New("token carries no subject")
	}
	return &c, nil
}

func logRejection(err error) {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Errors&jwt.ValidationErrorMalformed != 0:
			logger.GetLogger().Debug("Malformed session token")
		case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
			logger.GetLogger().Debug("Session token expired or not yet valid")
		case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
			logger.GetLogger().Warn("Session token signature mismatch")
		default:
			logger.GetLogger().WithField("error", err.Error()).Warn("Session token rejected")
		}
		return
	}
	logger.GetLogger().WithField("error", err.Error()).Debug("Session token rejected")
}
