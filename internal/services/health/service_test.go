package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

func TestStatusWithoutDatabase(t *testing.T) {
	st := NewService(nil, "none", "", false).Status(context.Background())
	assert.True(t, st.OK)
	assert.Equal(t, "memory", st.Database)
	assert.False(t, st.LLMConfigured)
}

func TestStatusPingsDatabase(t *testing.T) {
	ok := NewService(fakePinger{}, "gemini", "gemini-2.0-flash", true).Status(context.Background())
	assert.True(t, ok.OK)
	assert.Equal(t, "ok", ok.Database)

	down := NewService(fakePinger{err: errors.New("refused")}, "gemini", "", true).Status(context.Background())
	assert.False(t, down.OK)
	assert.Equal(t, "unavailable", down.Database)
}
