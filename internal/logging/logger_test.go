package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextHandlerInDev(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "dev", "debug")

	log.Debug(context.Background(), "dbg", "a", 1)
	log.With("req_id", "123").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=dbg")
	assert.Contains(t, out, "req_id=123")
	assert.Contains(t, out, "k=v")
}

func TestNew_JSONHandlerInProd(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "production", "info")

	log.Debug(context.Background(), "hidden")
	log.Warn(context.Background(), "visible", "user_id", 7)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"visible"`)
	assert.Contains(t, out, `"user_id":7`)
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop()
	log.Error(context.TODO(), "ignored", "k", "v")
	log.With("a", "b").Info(context.TODO(), "ignored")
}
