package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/haduong/smartmcq/internal/model"
	"github.com/haduong/smartmcq/internal/repository"
	"github.com/rs/zerolog/log"
)

const accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var accessCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// AccessCodeService produces the 6-character join codes for sessions. A code
// must be unique among currently active sessions; codes of expired or
// cancelled sessions are free to be handed out again.
type AccessCodeService interface {
	Generate() (string, error)
	Normalize(raw string) string
	ValidFormat(code string) bool
}

type accessCodeService struct {
	sessionRepo repository.SessionRepository
}

func NewAccessCodeService(sessionRepo repository.SessionRepository) AccessCodeService {
	return &accessCodeService{sessionRepo: sessionRepo}
}

// Generate draws random codes until one is free among active sessions. With a
// 36^6 keyspace collisions are rare, so retrying until success is fine.
func (s *accessCodeService) Generate() (string, error) {
	for {
		code, err := randomAccessCode()
		if err != nil {
			return "", fmt.Errorf("failed to draw random access code: %w", err)
		}
		exists, err := s.sessionRepo.ActiveCodeExists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check access code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
		log.Warn().Str("code", code).Msg("Access code collision with an active session, retrying")
	}
}

// Normalize uppercases and trims user input before lookup.
func (s *accessCodeService) Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func (s *accessCodeService) ValidFormat(code string) bool {
	return accessCodePattern.MatchString(code)
}

func randomAccessCode() (string, error) {
	// rand.Int keeps the draw uniform over the alphabet; reducing a raw byte
	// modulo 36 would skew the first few characters.
	alphabetSize := big.NewInt(int64(len(accessCodeAlphabet)))
	code := make([]byte, model.AccessCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		code[i] = accessCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
