package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrRateLimited(t *testing.T) {
	se := errors.FromError(errRateLimited(41500 * time.Millisecond))
	assert.Equal(t, int32(429), se.Code)
	assert.Equal(t, ReasonRateLimited, se.Reason)
	assert.Equal(t, "42", se.Metadata["retry_after"])

	se = errors.FromError(errRateLimited(0))
	assert.Equal(t, "1", se.Metadata["retry_after"])
}

func TestMaskSessionID(t *testing.T) {
	assert.Equal(t, "guest_127....", maskSessionID("guest_127.0.0.1_478000"))
	assert.Equal(t, "short...", maskSessionID("short"))
}

func TestLogin_RequiresCredentials(t *testing.T) {
	// 校验失败时不会访问用户仓库
	s := NewRadarService(nil, nil, nil, nil, log.DefaultLogger)

	tests := map[string]struct {
		req *LoginRequest
		msg string
	}{
		"no username": {req: &LoginRequest{Password: "x"}, msg: "username is required"},
		"no password": {req: &LoginRequest{Username: "alice"}, msg: "password is required"},
		"empty":       {req: &LoginRequest{}, msg: "username is required"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Login(context.Background(), tt.req)
			require.Error(t, err)
			se := errors.FromError(err)
			assert.Equal(t, int32(400), se.Code)
			assert.Equal(t, ReasonInvalidRequest, se.Reason)
			assert.Equal(t, tt.msg, se.Message)
		})
	}
}
