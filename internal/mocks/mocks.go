package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/eadcode/OnlineDatingApp/internal/identity"
	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, u models.NewUser) (models.User, error) {
	args := m.Called(ctx, u)
	return userArg(args, 0), args.Error(1)
}

func (m *UserRepositoryMock) FindByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	return userArg(args, 0), args.Error(1)
}

func (m *UserRepositoryMock) FindByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return userArg(args, 0), args.Error(1)
}

func (m *UserRepositoryMock) FindByProvider(ctx context.Context, provider, providerID string) (models.User, error) {
	args := m.Called(ctx, provider, providerID)
	return userArg(args, 0), args.Error(1)
}

func (m *UserRepositoryMock) LinkProvider(ctx context.Context, userID int, provider, providerID string) error {
	args := m.Called(ctx, userID, provider, providerID)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID int, p models.ProfileUpdate) (models.User, error) {
	args := m.Called(ctx, userID, p)
	return userArg(args, 0), args.Error(1)
}

func (m *UserRepositoryMock) SetOnline(ctx context.Context, userID int, online bool) error {
	args := m.Called(ctx, userID, online)
	return args.Error(0)
}

func (m *UserRepositoryMock) ListSingles(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) Delete(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func userArg(args mock.Arguments, i int) models.User {
	var user models.User
	if val := args.Get(i); val != nil {
		user = val.(models.User)
	}
	return user
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) StartChat(ctx context.Context, actorID int, targetID int) (models.Chat, bool, error) {
	args := m.Called(ctx, actorID, targetID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Bool(1), args.Error(2)
}

func (m *ChatRepositoryMock) IsParticipant(ctx context.Context, chatID int, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) GetThread(ctx context.Context, chatID int, userID int) (models.Thread, error) {
	args := m.Called(ctx, chatID, userID)
	var thread models.Thread
	if val := args.Get(0); val != nil {
		thread = val.(models.Thread)
	}
	return thread, args.Error(1)
}

func (m *ChatRepositoryMock) PostMessage(ctx context.Context, chatID int, authorID int, body string, cost int) (models.Message, int, error) {
	args := m.Called(ctx, chatID, authorID, body, cost)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Int(1), args.Error(2)
}

func (m *ChatRepositoryMock) ListChats(ctx context.Context, userID int) ([]models.ChatSummary, []models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var received, sent []models.ChatSummary
	if val := args.Get(0); val != nil {
		received = val.([]models.ChatSummary)
	}
	if val := args.Get(1); val != nil {
		sent = val.([]models.ChatSummary)
	}
	return received, sent, args.Error(2)
}

func (m *ChatRepositoryMock) DeleteChat(ctx context.Context, chatID int, userID int) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) SendRequest(ctx context.Context, requesterID int, addresseeID int) (models.Friendship, error) {
	args := m.Called(ctx, requesterID, addresseeID)
	return friendshipArg(args, 0), args.Error(1)
}

func (m *FriendRepositoryMock) Accept(ctx context.Context, friendshipID int, userID int) (models.Friendship, error) {
	args := m.Called(ctx, friendshipID, userID)
	return friendshipArg(args, 0), args.Error(1)
}

func (m *FriendRepositoryMock) Reject(ctx context.Context, friendshipID int, userID int) error {
	args := m.Called(ctx, friendshipID, userID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) Remove(ctx context.Context, friendshipID int, userID int) error {
	args := m.Called(ctx, friendshipID, userID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListFriends(ctx context.Context, userID int) ([]models.Friend, error) {
	args := m.Called(ctx, userID)
	return friendsArg(args, 0), args.Error(1)
}

func (m *FriendRepositoryMock) ListPendingRequests(ctx context.Context, userID int) ([]models.Friend, error) {
	args := m.Called(ctx, userID)
	return friendsArg(args, 0), args.Error(1)
}

func (m *FriendRepositoryMock) AreFriends(ctx context.Context, userID int, otherID int) (bool, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Bool(0), args.Error(1)
}

func friendshipArg(args mock.Arguments, i int) models.Friendship {
	var edge models.Friendship
	if val := args.Get(i); val != nil {
		edge = val.(models.Friendship)
	}
	return edge
}

func friendsArg(args mock.Arguments, i int) []models.Friend {
	var friends []models.Friend
	if val := args.Get(i); val != nil {
		friends = val.([]models.Friend)
	}
	return friends
}

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) Create(ctx context.Context, ownerID int, in models.PostInput) (models.Post, error) {
	args := m.Called(ctx, ownerID, in)
	return postArg(args, 0), args.Error(1)
}

func (m *PostRepositoryMock) Get(ctx context.Context, postID int) (models.PostView, error) {
	args := m.Called(ctx, postID)
	var view models.PostView
	if val := args.Get(0); val != nil {
		view = val.(models.PostView)
	}
	return view, args.Error(1)
}

func (m *PostRepositoryMock) ListPublic(ctx context.Context) ([]models.FeedItem, error) {
	args := m.Called(ctx)
	return feedArg(args, 0), args.Error(1)
}

func (m *PostRepositoryMock) ListByOwner(ctx context.Context, ownerID int, statuses []models.PostStatus) ([]models.FeedItem, error) {
	args := m.Called(ctx, ownerID, statuses)
	return feedArg(args, 0), args.Error(1)
}

func (m *PostRepositoryMock) Update(ctx context.Context, postID int, ownerID int, in models.PostInput) (models.Post, error) {
	args := m.Called(ctx, postID, ownerID, in)
	return postArg(args, 0), args.Error(1)
}

func (m *PostRepositoryMock) Delete(ctx context.Context, postID int, ownerID int) error {
	args := m.Called(ctx, postID, ownerID)
	return args.Error(0)
}

func (m *PostRepositoryMock) Like(ctx context.Context, postID int, userID int) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *PostRepositoryMock) Unlike(ctx context.Context, postID int, userID int) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *PostRepositoryMock) Comment(ctx context.Context, postID int, userID int, body string) (models.Comment, error) {
	args := m.Called(ctx, postID, userID, body)
	var comment models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(models.Comment)
	}
	return comment, args.Error(1)
}

func postArg(args mock.Arguments, i int) models.Post {
	var post models.Post
	if val := args.Get(i); val != nil {
		post = val.(models.Post)
	}
	return post
}

func feedArg(args mock.Arguments, i int) []models.FeedItem {
	var items []models.FeedItem
	if val := args.Get(i); val != nil {
		items = val.([]models.FeedItem)
	}
	return items
}

type SmileRepositoryMock struct {
	mock.Mock
}

func (m *SmileRepositoryMock) Send(ctx context.Context, senderID int, receiverID int) (models.Smile, error) {
	args := m.Called(ctx, senderID, receiverID)
	var smile models.Smile
	if val := args.Get(0); val != nil {
		smile = val.(models.Smile)
	}
	return smile, args.Error(1)
}

func (m *SmileRepositoryMock) Show(ctx context.Context, smileID int, receiverID int) (models.ReceivedSmile, error) {
	args := m.Called(ctx, smileID, receiverID)
	var smile models.ReceivedSmile
	if val := args.Get(0); val != nil {
		smile = val.(models.ReceivedSmile)
	}
	return smile, args.Error(1)
}

func (m *SmileRepositoryMock) Delete(ctx context.Context, smileID int, senderID int) error {
	args := m.Called(ctx, smileID, senderID)
	return args.Error(0)
}

func (m *SmileRepositoryMock) ListReceived(ctx context.Context, receiverID int) ([]models.ReceivedSmile, error) {
	args := m.Called(ctx, receiverID)
	var smiles []models.ReceivedSmile
	if val := args.Get(0); val != nil {
		smiles = val.([]models.ReceivedSmile)
	}
	return smiles, args.Error(1)
}

type ContactRepositoryMock struct {
	mock.Mock
}

func (m *ContactRepositoryMock) Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error) {
	args := m.Called(ctx, msg)
	var stored models.ContactMessage
	if val := args.Get(0); val != nil {
		stored = val.(models.ContactMessage)
	}
	return stored, args.Error(1)
}

type WalletRepositoryMock struct {
	mock.Mock
}

func (m *WalletRepositoryMock) Balance(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *WalletRepositoryMock) Credit(ctx context.Context, userID int, units int, reference string) (int, error) {
	args := m.Called(ctx, userID, units, reference)
	return args.Int(0), args.Error(1)
}

func (m *WalletRepositoryMock) Transactions(ctx context.Context, userID int) ([]models.WalletTransaction, error) {
	args := m.Called(ctx, userID)
	var txs []models.WalletTransaction
	if val := args.Get(0); val != nil {
		txs = val.([]models.WalletTransaction)
	}
	return txs, args.Error(1)
}

// ProcessorMock stands in for the payment processor.
type ProcessorMock struct {
	mock.Mock
}

func (m *ProcessorMock) CreateCustomer(ctx context.Context, email, paymentToken string) (string, error) {
	args := m.Called(ctx, email, paymentToken)
	return args.String(0), args.Error(1)
}

func (m *ProcessorMock) CreateCharge(ctx context.Context, amountCents int64, currency, customerID, description string) (string, error) {
	args := m.Called(ctx, amountCents, currency, customerID, description)
	return args.String(0), args.Error(1)
}

// ProviderMock stands in for an OAuth identity provider.
type ProviderMock struct {
	mock.Mock
	ProviderName string
}

func (m *ProviderMock) Name() string {
	return m.ProviderName
}

func (m *ProviderMock) AuthCodeURL(state string) string {
	return "https://provider.example/auth?state=" + state
}

func (m *ProviderMock) Exchange(ctx context.Context, code string) (identity.Profile, error) {
	args := m.Called(ctx, code)
	var profile identity.Profile
	if val := args.Get(0); val != nil {
		profile = val.(identity.Profile)
	}
	return profile, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.ChatRepository = (*ChatRepositoryMock)(nil)
var _ repositories.FriendRepository = (*FriendRepositoryMock)(nil)
var _ repositories.PostRepository = (*PostRepositoryMock)(nil)
var _ repositories.SmileRepository = (*SmileRepositoryMock)(nil)
var _ repositories.ContactRepository = (*ContactRepositoryMock)(nil)
var _ repositories.WalletRepository = (*WalletRepositoryMock)(nil)
var _ identity.Provider = (*ProviderMock)(nil)
