package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wawa-academy/erp-server/internal/model"
)

type published struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{channel: channel, payload: payload})
	return nil
}

func dmPage(id, from, to, content, readAt string) map[string]any {
	props := map[string]any{
		colDMSender:   textProp(from),
		colDMReceiver: textProp(to),
		colDMContent:  textProp(content),
	}
	if readAt != "" {
		props[colDMReadAt] = dateProp(readAt)
	}
	return page(id, props)
}

func TestMessageConversation(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /databases/db-dm/query", func(map[string]any) (int, any) {
		return results(
			dmPage("m-1", "t-seo", "t-ji", "회의 몇 시예요?", "2026-10-17T10:00:00Z"),
			dmPage("m-2", "t-ji", "t-seo", "3시요", ""),
		)
	})

	svc := NewMessageService(staticProvider{fn.client()}, &fakePublisher{}, testLog)
	msgs, err := svc.Conversation(context.Background(), "t-seo", "t-ji")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.NotNil(t, msgs[0].ReadAt)
	assert.Equal(t, 2026, msgs[0].ReadAt.Year())
	assert.Nil(t, msgs[1].ReadAt)
	assert.Equal(t, "3시요", msgs[1].Content)

	body := fn.calls(http.MethodPost, "/databases/db-dm/query")[0].Body
	or := body["filter"].(map[string]any)["or"].([]any)
	assert.Len(t, or, 2)
}

func TestMessageSendPublishes(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /pages", func(map[string]any) (int, any) {
		return http.StatusOK, page("m-new", map[string]any{})
	})
	pub := &fakePublisher{}
	svc := NewMessageService(staticProvider{fn.client()}, pub, testLog)

	msg, err := svc.Send(context.Background(), "t-seo", model.SendMessageRequest{ReceiverID: "t-ji", Content: "안녕하세요"})
	require.NoError(t, err)
	assert.Equal(t, "m-new", msg.ID)
	assert.Equal(t, "t-seo", msg.SenderID)

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "dm:t-ji:inbox", pub.sent[0].channel)
	var got model.Message
	require.NoError(t, json.Unmarshal(pub.sent[0].payload, &got))
	assert.Equal(t, "안녕하세요", got.Content)
}

func TestMessageSendSurvivesPublishFailure(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /pages", func(map[string]any) (int, any) {
		return http.StatusOK, page("m-new", map[string]any{})
	})
	svc := NewMessageService(staticProvider{fn.client()}, &fakePublisher{err: errors.New("redis down")}, testLog)

	msg, err := svc.Send(context.Background(), "t-seo", model.SendMessageRequest{ReceiverID: "t-ji", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "m-new", msg.ID)
}

func TestMessageMarkRead(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /databases/db-dm/query", func(map[string]any) (int, any) {
		return results(
			dmPage("m-1", "t-ji", "t-seo", "a", ""),
			dmPage("m-2", "t-ji", "t-seo", "b", ""),
		)
	})
	for _, id := range []string{"m-1", "m-2"} {
		fn.handle("PATCH /pages/"+id, func(map[string]any) (int, any) {
			return http.StatusOK, page(id, map[string]any{})
		})
	}

	svc := NewMessageService(staticProvider{fn.client()}, &fakePublisher{}, testLog)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }

	n, err := svc.MarkRead(context.Background(), "t-seo", "t-ji")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	patch := fn.calls(http.MethodPatch, "/pages/m-1")[0].Body["properties"].(map[string]any)
	date := patch[colDMReadAt].(map[string]any)["date"].(map[string]any)
	assert.Equal(t, "2026-10-18T09:30:00Z", date["start"])

	clauses := filterClauses(fn.calls(http.MethodPost, "/databases/db-dm/query")[0].Body)
	assert.Len(t, clauses, 3)
}

func TestMessageUnreadCountIsAdvisory(t *testing.T) {
	fn := newFakeNotion(t)
	fn.handle("POST /databases/db-dm/query", func(map[string]any) (int, any) {
		return results(dmPage("m-1", "t-ji", "t-seo", "a", ""))
	})
	svc := NewMessageService(staticProvider{fn.client()}, &fakePublisher{}, testLog)
	assert.Equal(t, 1, svc.UnreadCount(context.Background(), "t-seo"))

	broken := newFakeNotion(t)
	broken.handle("POST /databases/db-dm/query", func(map[string]any) (int, any) {
		return http.StatusBadGateway, map[string]any{}
	})
	svc = NewMessageService(staticProvider{broken.client()}, &fakePublisher{}, testLog)
	assert.Equal(t, 0, svc.UnreadCount(context.Background(), "t-seo"))

	ws, _, _ := newWorkspaceService(t)
	assert.Equal(t, 0, NewMessageService(ws, &fakePublisher{}, testLog).UnreadCount(context.Background(), "t-seo"))
}
