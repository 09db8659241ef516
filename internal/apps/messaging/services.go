package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coworkhub/backend/internal/notify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxMessageLength     = 4000
	realtimeMessageEvent = "message.created"
)

var (
	ErrInvalidType       = errors.New("Invalid type")
	ErrSelfConversation  = errors.New("cannot start a conversation with yourself")
	ErrMemberRequired    = errors.New("otherUserId is required")
	ErrGroupNameRequired = errors.New("group name is required")
	ErrNotMember         = errors.New("conversation not found")
	ErrEmptyMessage      = errors.New("message content is required")
	ErrMessageTooLong    = errors.New("message is too long")
)

// ChatService manages conversations and their messages. New messages are
// fanned out on the conversation's realtime channel.
type ChatService struct {
	db       *gorm.DB
	realtime *notify.Dispatcher
}

func NewChatService(db *gorm.DB, realtime *notify.Dispatcher) *ChatService {
	return &ChatService{db: db, realtime: realtime}
}

// Channel is the realtime channel members of a conversation subscribe to.
func Channel(conversationID uuid.UUID) string {
	return "conversation-" + conversationID.String()
}

// Create opens a conversation. A direct conversation between two members is
// reused when one already exists. A group always contains its creator.
func (s *ChatService) Create(ctx context.Context, creator uuid.UUID, req *CreateConversationRequest) (*Conversation, error) {
	switch req.Type {
	case TypeDirect:
		return s.createDirect(ctx, creator, req.OtherUserID)
	case TypeGroup:
		return s.createGroup(ctx, creator, req.Name, req.MemberIDs)
	default:
		return nil, ErrInvalidType
	}
}

func (s *ChatService) createDirect(ctx context.Context, creator, other uuid.UUID) (*Conversation, error) {
	if other == uuid.Nil {
		return nil, ErrMemberRequired
	}
	if other == creator {
		return nil, ErrSelfConversation
	}

	var conv Conversation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&Conversation{}).
			Joins("JOIN conversation_members a ON a.conversation_id = conversations.id AND a.user_id = ?", creator).
			Joins("JOIN conversation_members b ON b.conversation_id = conversations.id AND b.user_id = ?", other).
			Where("conversations.type = ?", TypeDirect).
			Order("conversations.created_at ASC").
			First(&conv).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		conv = Conversation{Type: TypeDirect, CreatedBy: creator}
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		members := []ConversationMember{
			{ConversationID: conv.ID, UserID: creator},
			{ConversationID: conv.ID, UserID: other},
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create direct conversation: %w", err)
	}
	return &conv, nil
}

func (s *ChatService) createGroup(ctx context.Context, creator uuid.UUID, name string, memberIDs []uuid.UUID) (*Conversation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	seen := map[uuid.UUID]bool{creator: true}
	members := []ConversationMember{{UserID: creator}}
	for _, id := range memberIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, ConversationMember{UserID: id})
	}

	conv := Conversation{Type: TypeGroup, Name: name, CreatedBy: creator}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		for i := range members {
			members[i].ConversationID = conv.ID
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create group conversation: %w", err)
	}
	return &conv, nil
}

func (s *ChatService) isMember(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&n).Error
	return n > 0, err
}

// List returns the member's conversations, most recently active first, with
// members and the last message.
func (s *ChatService) List(ctx context.Context, userID uuid.UUID) ([]ConversationView, error) {
	var convs []Conversation
	if err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&ConversationMember{}).Select("conversation_id").Where("user_id = ?", userID)).
		Order("updated_at DESC").
		Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return s.enrich(ctx, convs)
}

// ListAll is the admin view of every conversation.
func (s *ChatService) ListAll(ctx context.Context) ([]ConversationView, error) {
	var convs []Conversation
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return s.enrich(ctx, convs)
}

func (s *ChatService) enrich(ctx context.Context, convs []Conversation) ([]ConversationView, error) {
	views := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		members, err := s.members(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		view := ConversationView{Conversation: c, Members: members}

		var last Message
		err = s.db.WithContext(ctx).Where("conversation_id = ?", c.ID).Order("created_at DESC").First(&last).Error
		switch {
		case err == nil:
			view.LastMessage = &last
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *ChatService) members(ctx context.Context, conversationID uuid.UUID) ([]MemberSummary, error) {
	var out []MemberSummary
	err := s.db.WithContext(ctx).Model(&ConversationMember{}).
		Select("conversation_members.user_id, COALESCE(profiles.full_name, '') AS full_name, COALESCE(profiles.avatar_url, '') AS avatar_url").
		Joins("LEFT JOIN profiles ON profiles.user_id = conversation_members.user_id").
		Where("conversation_members.conversation_id = ?", conversationID).
		Order("conversation_members.joined_at ASC").
		Scan(&out).Error
	return out, err
}

// Messages lists a conversation's messages oldest first. Only members may
// read them.
func (s *ChatService) Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]Message, error) {
	ok, err := s.isMember(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}
	var msgs []Message
	err = s.db.WithContext(ctx).Where("conversation_id = ?", conversationID).Order("created_at ASC").Find(&msgs).Error
	return msgs, err
}

// Send posts a message, bumps the conversation's updated_at and publishes the
// message on the conversation channel.
func (s *ChatService) Send(ctx context.Context, userID, conversationID uuid.UUID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if len(content) > maxMessageLength {
		return nil, ErrMessageTooLong
	}

	ok, err := s.isMember(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}

	msg := Message{ConversationID: conversationID, SenderID: userID, Content: content}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&Conversation{}).Where("id = ?", conversationID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	s.realtime.PublishRealtime(ctx, Channel(conversationID), map[string]interface{}{
		"event":   realtimeMessageEvent,
		"message": msg,
	})
	return &msg, nil
}
