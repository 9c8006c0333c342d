package service

import (
	"Reisekarte/internal/session"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrWrongCode — неверный код доступа.
var ErrWrongCode = errors.New("wrong access code")

// AuthService — вход по общему коду доступа и работа с сессиями.
// Код не хранится в открытом виде: при старте хэшируется bcrypt'ом.
type AuthService struct {
	sessions session.Store
	codeHash []byte
	logger   *zap.SugaredLogger
}

func NewAuthService(store session.Store, accessCode string, logger *zap.SugaredLogger) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(accessCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{sessions: store, codeHash: hash, logger: logger}, nil
}

// StartSession создаёт новую неавторизованную сессию (страница логина).
func (s *AuthService) StartSession() *session.Session {
	return s.sessions.Create()
}

// Login сверяет код и авторизует сессию. Пустой sessionID допустим:
// тогда сессия создаётся сервером. Возвращает адрес перехода на карту.
func (s *AuthService) Login(sessionID, accessCode string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.codeHash, []byte(accessCode)); err != nil {
		s.logger.Warnw("login rejected", "session_id", sessionID)
		return "", ErrWrongCode
	}

	if sessionID == "" {
		sessionID = s.sessions.Create().ID
	}
	sess := s.sessions.Authenticate(sessionID)
	s.logger.Infow("login ok", "session_id", sess.ID)

	return "/map?sessionId=" + sess.ID, nil
}

// Logout удаляет сессию целиком — флаг authenticated назад не откатывается.
func (s *AuthService) Logout(sessionID string) {
	s.sessions.Delete(sessionID)
}

// Check — true для существующей, не истёкшей и авторизованной сессии.
func (s *AuthService) Check(sessionID string) bool {
	sess := s.sessions.Get(sessionID)
	return sess != nil && sess.Authenticated
}
