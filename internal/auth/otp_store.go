package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore keeps one-time passwords for the admin password-reset flow in
// Redis with a TTL, so they survive restarts and multi-instance deployments.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOTPStore builds a store with the configured TTL.
func NewOTPStore(client *redis.Client, ttlMinutes int) *OTPStore {
	if ttlMinutes <= 0 {
		ttlMinutes = 10
	}
	return &OTPStore{client: client, ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Generate creates a six-digit OTP for the email, replacing any previous one.
func (s *OTPStore) Generate(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	otp := fmt.Sprintf("%06d", n.Int64())

	if err := s.client.Set(ctx, otpKey(email), otp, s.ttl).Err(); err != nil {
		return "", err
	}
	return otp, nil
}

// Consume validates the OTP and deletes it on success. A wrong or expired
// OTP returns false with no error.
func (s *OTPStore) Consume(ctx context.Context, email, otp string) (bool, error) {
	stored, err := s.client.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != otp {
		return false, nil
	}
	if err := s.client.Del(ctx, otpKey(email)).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func otpKey(email string) string {
	return "admin_otp:" + email
}
