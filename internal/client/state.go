package client

import (
	"context"
	"sync"

	"github.com/RichardoC/padchat/internal/models"
)

// Localized UI strings.
const (
	DefaultImageQuestion = "ما هذه الصورة؟"
	NewConversationTitle = "محادثة جديدة"
	conversationFallback = "محادثة"

	toastErrorTitle   = "خطأ"
	toastSendFailed   = "حدث خطأ أثناء إرسال الرسالة. حاول مرة أخرى."
	toastDeleteFailed = "حدث خطأ أثناء حذف المحادثة"
	toastDeletedTitle = "تم الحذف"
	toastDeleted      = "تم حذف المحادثة بنجاح"
)

const KeyConversations = "conversations"

func MessagesKey(conversationID string) string {
	return "conversations/" + conversationID + "/messages"
}

// API is the server surface the state layer depends on. *Client satisfies it.
type API interface {
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	DeleteConversation(ctx context.Context, conversationID string) error
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type Toast struct {
	Title       string
	Description string
	Destructive bool
}

type Notifier interface {
	Notify(Toast)
}

type NotifierFunc func(Toast)

func (f NotifierFunc) Notify(t Toast) { f(t) }

// State caches query results until they are invalidated and runs the
// send and delete mutations. It never changes local data optimistically;
// successful mutations invalidate the affected queries instead.
type State struct {
	api    API
	notify Notifier

	mu      sync.Mutex
	active  string
	pending int
	cache   map[string]any
	// gen counts invalidations per key. A query only caches its result if
	// no invalidation happened while it was in flight.
	gen map[string]uint64
}

func NewState(api API, notify Notifier) *State {
	if notify == nil {
		notify = NotifierFunc(func(Toast) {})
	}
	return &State{
		api:    api,
		notify: notify,
		cache:  make(map[string]any),
		gen:    make(map[string]uint64),
	}
}

func (s *State) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *State) Select(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = conversationID
}

// New clears the active conversation so the next Send starts a new one.
func (s *State) New() {
	s.Select("")
}

// Pending reports whether a send is in flight.
func (s *State) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

func (s *State) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked(key)
}

func (s *State) invalidateLocked(key string) {
	delete(s.cache, key)
	s.gen[key]++
}

// cached returns the cached value for key, or the generation a fetch
// must present to store.
func (s *State) cached(key string) (any, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache[key]
	return v, s.gen[key], ok
}

func (s *State) store(key string, gen uint64, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[key] != gen {
		return
	}
	s.cache[key] = v
}

func (s *State) Conversations(ctx context.Context) ([]models.Conversation, error) {
	v, gen, ok := s.cached(KeyConversations)
	if ok {
		return v.([]models.Conversation), nil
	}
	convs, err := s.api.ListConversations(ctx)
	if err != nil {
		return nil, err
	}
	s.store(KeyConversations, gen, convs)
	return convs, nil
}

// Messages returns the active conversation's messages, or nil without a
// request when nothing is selected.
func (s *State) Messages(ctx context.Context) ([]models.Message, error) {
	active := s.Active()
	if active == "" {
		return nil, nil
	}

	key := MessagesKey(active)
	v, gen, ok := s.cached(key)
	if ok {
		return v.([]models.Message), nil
	}
	msgs, err := s.api.ListMessages(ctx, active)
	if err != nil {
		return nil, err
	}
	s.store(key, gen, msgs)
	return msgs, nil
}

// Title is the header text for the active conversation.
func (s *State) Title(ctx context.Context) string {
	active := s.Active()
	if active == "" {
		return NewConversationTitle
	}
	convs, err := s.Conversations(ctx)
	if err == nil {
		for _, c := range convs {
			if c.ID == active && c.Title != "" {
				return c.Title
			}
		}
	}
	return conversationFallback
}

// Send posts a chat turn for the active conversation. A conversation id
// returned by the server becomes active if none was.
func (s *State) Send(ctx context.Context, text, image string) (*ChatResponse, error) {
	if text == "" && image != "" {
		text = DefaultImageQuestion
	}

	s.mu.Lock()
	active := s.active
	s.pending++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pending--
		s.mu.Unlock()
	}()

	res, err := s.api.Chat(ctx, ChatRequest{
		ConversationID: active,
		Message:        text,
		ImageBase64:    image,
	})
	if err != nil {
		s.notify.Notify(Toast{Title: toastErrorTitle, Description: toastSendFailed, Destructive: true})
		return nil, err
	}

	target := res.ConversationID
	if target == "" {
		target = active
	}

	s.mu.Lock()
	if s.active == "" && res.ConversationID != "" {
		s.active = res.ConversationID
	}
	s.invalidateLocked(KeyConversations)
	s.invalidateLocked(MessagesKey(target))
	s.mu.Unlock()

	return res, nil
}

// Delete removes a conversation and clears the selection if it was active.
func (s *State) Delete(ctx context.Context, conversationID string) error {
	if err := s.api.DeleteConversation(ctx, conversationID); err != nil {
		s.notify.Notify(Toast{Title: toastErrorTitle, Description: toastDeleteFailed, Destructive: true})
		return err
	}

	s.mu.Lock()
	if s.active == conversationID {
		s.active = ""
	}
	s.invalidateLocked(KeyConversations)
	s.invalidateLocked(MessagesKey(conversationID))
	s.mu.Unlock()

	s.notify.Notify(Toast{Title: toastDeletedTitle, Description: toastDeleted})
	return nil
}
