package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wawa-academy/erp-server/internal/config"
	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/notion"
)

// recentMessageLimit bounds the inbox overview.
const recentMessageLimit = 100

// MessagePublisher fans a new message out to the receiver's live connections.
type MessagePublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// MessageService implements teacher-to-teacher direct messages on top of the
// DM database.
type MessageService struct {
	notion    NotionProvider
	publisher MessagePublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewMessageService creates a new MessageService.
func NewMessageService(np NotionProvider, publisher MessagePublisher, log zerolog.Logger) *MessageService {
	return &MessageService{
		notion:    np,
		publisher: publisher,
		log:       log.With().Str("component", "message").Logger(),
		now:       time.Now,
	}
}

// Conversation returns the messages between me and partner, oldest first.
func (s *MessageService) Conversation(ctx context.Context, me, partner string) ([]model.Message, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}
	pages, err := client.Query(ctx, model.DatasetDMMessages, &notion.QueryRequest{
		Filter: notion.Or(
			*notion.And(notion.TextEquals(colDMSender, me), notion.TextEquals(colDMReceiver, partner)),
			*notion.And(notion.TextEquals(colDMSender, partner), notion.TextEquals(colDMReceiver, me)),
		),
		Sorts: []notion.Sort{notion.SortByCreated(notion.Ascending)},
	})
	if err != nil {
		return nil, err
	}
	return messagesFromPages(pages), nil
}

// Recent returns the latest messages sent or received by me, newest first.
func (s *MessageService) Recent(ctx context.Context, me string) ([]model.Message, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}
	res, err := client.QueryPage(ctx, model.DatasetDMMessages, &notion.QueryRequest{
		Filter:   notion.Or(notion.TextEquals(colDMSender, me), notion.TextEquals(colDMReceiver, me)),
		Sorts:    []notion.Sort{notion.SortByCreated(notion.Descending)},
		PageSize: recentMessageLimit,
	})
	if err != nil {
		return nil, err
	}
	return messagesFromPages(res.Results), nil
}

// Send stores a message and notifies the receiver. A failed notification is
// logged only: the message is already stored and shows up on the next fetch.
func (s *MessageService) Send(ctx context.Context, me string, req model.SendMessageRequest) (*model.Message, error) {
	client, err := s.notion.Client()
	if err != nil {
		return nil, err
	}
	page, err := client.CreatePage(ctx, model.DatasetDMMessages, notion.Properties{
		colDMSender:   notion.Text(me),
		colDMReceiver: notion.Text(req.ReceiverID),
		colDMContent:  notion.Text(req.Content),
	})
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:         page.ID,
		SenderID:   me,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		CreatedAt:  page.CreatedTime,
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now().UTC()
	}

	if payload, err := json.Marshal(msg); err == nil {
		if err := s.publisher.Publish(ctx, config.CacheKey.MessageChannel(req.ReceiverID), payload); err != nil {
			s.log.Warn().Err(err).Str("receiver_id", req.ReceiverID).Msg("Publish message")
		}
	}
	return msg, nil
}

// MarkRead stamps every unread message from partner to me and returns how
// many were marked.
func (s *MessageService) MarkRead(ctx context.Context, me, partner string) (int, error) {
	client, err := s.notion.Client()
	if err != nil {
		return 0, err
	}
	unread, err := s.unread(ctx, client, me, partner)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC().Format(time.RFC3339)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for _, p := range unread {
		g.Go(func() error {
			_, err := client.UpdatePage(gctx, p.ID, notion.Properties{colDMReadAt: notion.Date(now)})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return len(unread), nil
}

// UnreadCount feeds the header badge. It is advisory: any failure is logged
// and reported as zero.
func (s *MessageService) UnreadCount(ctx context.Context, me string) int {
	client, err := s.notion.Client()
	if err != nil {
		return 0
	}
	unread, err := s.unread(ctx, client, me, "")
	if err != nil {
		s.log.Debug().Err(err).Msg("Unread count unavailable")
		return 0
	}
	return len(unread)
}

func (s *MessageService) unread(ctx context.Context, client *notion.Client, me, partner string) ([]notion.Page, error) {
	filters := []notion.Filter{
		notion.TextEquals(colDMReceiver, me),
		{Property: colDMReadAt, Date: &notion.DateCondition{IsEmpty: true}},
	}
	if partner != "" {
		filters = append(filters, notion.TextEquals(colDMSender, partner))
	}
	return client.Query(ctx, model.DatasetDMMessages, &notion.QueryRequest{Filter: notion.And(filters...)})
}

func messagesFromPages(pages []notion.Page) []model.Message {
	out := make([]model.Message, 0, len(pages))
	for i := range pages {
		p := &pages[i]
		msg := model.Message{
			ID:         p.ID,
			SenderID:   p.Text(colDMSender),
			ReceiverID: p.Text(colDMReceiver),
			Content:    p.Text(colDMContent),
			CreatedAt:  p.CreatedTime,
		}
		if readAt := p.DateStart(colDMReadAt); readAt != "" {
			if t, err := time.Parse(time.RFC3339, readAt); err == nil {
				msg.ReadAt = &t
			}
		}
		out = append(out, msg)
	}
	return out
}
