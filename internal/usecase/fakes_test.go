package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"google.golang.org/api/iterator"

	"slawn/internal/domain/entity"
	"slawn/internal/domain/repository"
	"slawn/internal/domain/service"
	"slawn/pkg/errors"
)

type fakeItemRepo struct {
	mu           sync.Mutex
	items        map[string]*entity.Item
	getErr       error
	incrementErr error
}

func newFakeItemRepo(items ...*entity.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[string]*entity.Item)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = "item-" + item.Title
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Item", nil)
	}
	cp := *item
	return &cp, nil
}

func (r *fakeItemRepo) List(_ context.Context, category string, _ int) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Item
	for _, it := range r.items {
		if category == "" || it.Category == category {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeItemRepo) ListBySeller(_ context.Context, sellerID string, _ int) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Item
	for _, it := range r.items {
		if it.SellerID == sellerID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) IncrementBuys(_ context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incrementErr != nil {
		return r.incrementErr
	}
	it, ok := r.items[id]
	if !ok {
		return errors.NotFound("Item", nil)
	}
	it.Buys += delta
	return nil
}

func (r *fakeItemRepo) buys(id string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Buys
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*entity.Order
	seq       int
	getErr    error
	mutateErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*entity.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if order.ID == "" {
		order.ID = fmt.Sprintf("order-%d", r.seq)
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListByBuyer(_ context.Context, buyerID string, _ int) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.orders {
		if o.BuyerID == buyerID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Mutate applies fn to a copy and only stores it when fn succeeds.
func (r *fakeOrderRepo) Mutate(_ context.Context, id string, fn repository.OrderMutation) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mutateErr != nil {
		return nil, r.mutateErr
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	cp := *o
	cp.Updates = append([]entity.OrderUpdate(nil), o.Updates...)
	if err := fn(&cp); err != nil {
		return nil, err
	}
	r.orders[id] = &cp
	out := cp
	return &out, nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type fakeTransactionRepo struct {
	mu        sync.Mutex
	txns      map[string]*entity.Transaction
	recordErr error
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txns: make(map[string]*entity.Transaction)}
}

func (r *fakeTransactionRepo) Record(_ context.Context, txn *entity.Transaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recordErr != nil {
		return false, r.recordErr
	}
	if _, ok := r.txns[txn.Reference]; ok {
		return false, nil
	}
	txn.ID = txn.Reference
	cp := *txn
	r.txns[txn.Reference] = &cp
	return true, nil
}

func (r *fakeTransactionRepo) GetByReference(_ context.Context, reference string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[reference]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	return t, nil
}

func (r *fakeTransactionRepo) ListByBuyer(_ context.Context, buyerID string, _ int) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Transaction
	for _, t := range r.txns {
		if t.BuyerID == buyerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return out, nil
}

func (r *fakeTransactionRepo) List(_ context.Context, _ int) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Transaction
	for _, t := range r.txns {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTransactionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.txns)
}

type fakeCharacterRepo struct {
	characters map[string]*entity.Character
	calls      int
	err        error
}

func newFakeCharacterRepo(chars ...*entity.Character) *fakeCharacterRepo {
	r := &fakeCharacterRepo{characters: make(map[string]*entity.Character)}
	for _, c := range chars {
		r.characters[c.UserID] = c
	}
	return r
}

func (r *fakeCharacterRepo) GetByUserID(_ context.Context, userID string) (*entity.Character, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.characters[userID]
	if !ok {
		return nil, errors.NotFound("Character", nil)
	}
	return c, nil
}

func (r *fakeCharacterRepo) GetByUserIDs(_ context.Context, userIDs []string) (map[string]*entity.Character, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[string]*entity.Character)
	for _, id := range userIDs {
		if c, ok := r.characters[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (r *fakeCharacterRepo) UpdateStoreAbout(_ context.Context, userID, about string) (*entity.Character, error) {
	c, ok := r.characters[userID]
	if !ok {
		return nil, errors.NotFound("Character", nil)
	}
	c.StoreAbout = about
	cp := *c
	return &cp, nil
}

// fakeChatRepo keeps chats in memory and pushes snapshots to watchers.
type fakeChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message
	seq      int
	sendErr  error
	resets   int

	watchers []*fakeSnapshotIterator[*entity.Message]
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    make(map[string]*entity.Chat),
		messages: make(map[string][]*entity.Message),
	}
}

func (r *fakeChatRepo) GetByID(_ context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return cloneChat(c), nil
}

func (r *fakeChatRepo) SendMessage(_ context.Context, seed *entity.Chat, msg *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sendErr != nil {
		return r.sendErr
	}

	r.seq++
	msg.ID = fmt.Sprintf("msg-%d", r.seq)
	msg.ChatID = seed.ID
	msg.CreatedAt = seed.LastMessageTime

	chat, ok := r.chats[seed.ID]
	if !ok {
		r.chats[seed.ID] = cloneChat(seed)
	} else {
		chat.LastMessage = msg.Text
		chat.LastMessageTime = seed.LastMessageTime
		chat.LastMessageSender = msg.SenderID
		chat.UnreadCount[msg.RecipientID]++
		for uid, d := range seed.ParticipantDetails {
			chat.ParticipantDetails[uid] = d
		}
	}

	cp := *msg
	r.messages[seed.ID] = append(r.messages[seed.ID], &cp)
	return nil
}

func (r *fakeChatRepo) ResetUnread(_ context.Context, chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[chatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	r.resets++
	c.UnreadCount[userID] = 0
	return nil
}

func (r *fakeChatRepo) ListByParticipant(_ context.Context, userID string) repository.ChatIterator {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Chat
	for _, c := range r.chats {
		if c.HasParticipant(userID) {
			out = append(out, cloneChat(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageTime.After(out[j].LastMessageTime) })
	return &sliceChatIterator{chats: out}
}

func (r *fakeChatRepo) WatchChats(ctx context.Context, userID string) repository.SnapshotIterator[*entity.Chat] {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := newFakeSnapshotIterator[*entity.Chat](ctx)
	var out []*entity.Chat
	for _, c := range r.chats {
		if c.HasParticipant(userID) {
			out = append(out, cloneChat(c))
		}
	}
	it.push(out)
	return it
}

func (r *fakeChatRepo) WatchMessages(ctx context.Context, chatID string) repository.SnapshotIterator[*entity.Message] {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := newFakeSnapshotIterator[*entity.Message](ctx)
	it.push(append([]*entity.Message(nil), r.messages[chatID]...))
	r.watchers = append(r.watchers, it)
	return it
}

func (r *fakeChatRepo) unread(chatID, userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chats[chatID].UnreadCount[userID]
}

func (r *fakeChatRepo) resetCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resets
}

func cloneChat(c *entity.Chat) *entity.Chat {
	cp := *c
	cp.Participants = append([]string(nil), c.Participants...)
	cp.UnreadCount = make(map[string]int, len(c.UnreadCount))
	for k, v := range c.UnreadCount {
		cp.UnreadCount[k] = v
	}
	cp.ParticipantDetails = make(map[string]entity.ParticipantDetails, len(c.ParticipantDetails))
	for k, v := range c.ParticipantDetails {
		cp.ParticipantDetails[k] = v
	}
	return &cp
}

type sliceChatIterator struct {
	chats   []*entity.Chat
	pos     int
	stopped bool
}

func (it *sliceChatIterator) Next() (*entity.Chat, error) {
	if it.pos >= len(it.chats) {
		return nil, iterator.Done
	}
	c := it.chats[it.pos]
	it.pos++
	return c, nil
}

func (it *sliceChatIterator) Stop() { it.stopped = true }

type fakeSnapshotIterator[T any] struct {
	ctx     context.Context
	ch      chan []T
	mu      sync.Mutex
	stopped bool
}

func newFakeSnapshotIterator[T any](ctx context.Context) *fakeSnapshotIterator[T] {
	return &fakeSnapshotIterator[T]{ctx: ctx, ch: make(chan []T, 8)}
}

func (it *fakeSnapshotIterator[T]) push(items []T) {
	it.ch <- items
}

func (it *fakeSnapshotIterator[T]) Next() ([]T, error) {
	select {
	case items, ok := <-it.ch:
		if !ok {
			return nil, iterator.Done
		}
		return items, nil
	case <-it.ctx.Done():
		return nil, it.ctx.Err()
	}
}

func (it *fakeSnapshotIterator[T]) Stop() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.stopped = true
}

func (it *fakeSnapshotIterator[T]) isStopped() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.stopped
}

type mockPaymentGateway struct {
	mock.Mock
}

func (m *mockPaymentGateway) NewCheckout(email string, price float64) service.CheckoutParams {
	args := m.Called(email, price)
	return args.Get(0).(service.CheckoutParams)
}

func (m *mockPaymentGateway) Verify(ctx context.Context, reference string, amount int64, currency string) error {
	args := m.Called(ctx, reference, amount, currency)
	return args.Error(0)
}

type allowAll struct{}

func (allowAll) Allow(string, string) (bool, time.Duration) { return true, 0 }

type denyAll struct{}

func (denyAll) Allow(string, string) (bool, time.Duration) { return false, 5 * time.Second }

type memoryAuthors struct {
	names   map[string]string
	cleared int
}

func newMemoryAuthors() *memoryAuthors {
	return &memoryAuthors{names: make(map[string]string)}
}

func (m *memoryAuthors) Get(_ context.Context, id string) (string, bool) {
	n, ok := m.names[id]
	return n, ok
}

func (m *memoryAuthors) Put(_ context.Context, id, name string) { m.names[id] = name }

func (m *memoryAuthors) Clear(context.Context) error {
	m.cleared++
	m.names = make(map[string]string)
	return nil
}
