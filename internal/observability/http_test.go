package observability

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	req.Header.Set("X-Real-IP", "10.9.9.9")
	assert.Equal(t, "10.0.0.1", ClientIP(req))
}

func TestClientIPFallsBackToRealIPThenPeer(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Real-IP", "10.9.9.9")
	assert.Equal(t, "10.9.9.9", ClientIP(req))

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "192.168.1.5", ClientIP(req))
}

func TestClientMetaFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/chats/1", nil)
	req.Header.Set("X-Request-ID", "req-9")
	req.Header.Set("X-Device-Id", "phone-1")
	req.Header.Set("User-Agent", "dating-app/1.0")
	req.RemoteAddr = "172.16.0.4:4000"

	meta := ClientMetaFromRequest(req)

	assert.Equal(t, ClientMeta{RequestID: "req-9", DeviceID: "phone-1", IP: "172.16.0.4", UserAgent: "dating-app/1.0"}, meta)
}

func TestSplitFullMethod(t *testing.T) {
	service, method := splitFullMethod("/grpc.health.v1.Health/Check")
	assert.Equal(t, "grpc.health.v1.Health", service)
	assert.Equal(t, "Check", method)

	service, method = splitFullMethod("bogus")
	assert.Equal(t, "unknown", service)
	assert.Equal(t, "unknown", method)
}

type recordingPublisher struct {
	keys    []string
	headers []map[string]string
}

func (p *recordingPublisher) PublishJSON(_ context.Context, routingKey string, _ interface{}, headers map[string]string) error {
	p.keys = append(p.keys, routingKey)
	p.headers = append(p.headers, headers)
	return nil
}

func TestPublishEventUsesConfiguredPublisher(t *testing.T) {
	t.Cleanup(func() { SetPublisher(nil) })
	assert.NoError(t, PublishEvent(context.Background(), "ws_events.chats", EventEnvelope{}, nil))

	pub := &recordingPublisher{}
	SetPublisher(pub)
	err := PublishEvent(context.Background(), "ws_events.chats", EventEnvelope{EventName: "ws_connect"}, BuildHeaders("req-1", ""))

	assert.NoError(t, err)
	assert.Equal(t, []string{"ws_events.chats"}, pub.keys)
	assert.Equal(t, map[string]string{"x-request-id": "req-1"}, pub.headers[0])
}
