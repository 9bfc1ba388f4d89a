package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eadcode/OnlineDatingApp/internal/models"
)

const chatColumns = `id, user1_id, user2_id, initiator_id, user1_read, user2_read, last_activity_at, created_at`

// ChatRepository abstracts chat persistence.
type ChatRepository interface {
	StartChat(ctx context.Context, actorID int, targetID int) (models.Chat, bool, error)
	IsParticipant(ctx context.Context, chatID int, userID int) (bool, error)
	GetThread(ctx context.Context, chatID int, userID int) (models.Thread, error)
	PostMessage(ctx context.Context, chatID int, authorID int, body string, cost int) (models.Message, int, error)
	ListChats(ctx context.Context, userID int) (received []models.ChatSummary, sent []models.ChatSummary, err error)
	DeleteChat(ctx context.Context, chatID int, userID int) error
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db, now: time.Now}
}

// StartChat returns the single chat between the two users, creating it on first contact
// with the actor as initiator. The actor's read flag is set and the other party's cleared.
func (r *ChatRepo) StartChat(ctx context.Context, actorID int, targetID int) (models.Chat, bool, error) {
	if actorID == targetID {
		return models.Chat{}, false, ErrChatWithSelf
	}
	user1, user2 := models.CanonicalPair(actorID, targetID)
	user1Read, user2Read := models.ReadFlagsFor(actorID, user1, user2)

	var row struct {
		models.Chat
		Created bool `db:"created"`
	}
	err := r.db.GetContext(ctx, &row, `INSERT INTO chats (user1_id, user2_id, initiator_id, user1_read, user2_read)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user1_id, user2_id) DO UPDATE SET user1_read = EXCLUDED.user1_read, user2_read = EXCLUDED.user2_read
        RETURNING `+chatColumns+`, (xmax = 0) AS created`, user1, user2, actorID, user1Read, user2Read)
	if isForeignKeyViolation(err) {
		return models.Chat{}, false, ErrUserNotFound
	}
	if err != nil {
		return models.Chat{}, false, err
	}
	return row.Chat, row.Created, nil
}

// IsParticipant checks whether a user belongs to the chat.
func (r *ChatRepo) IsParticipant(ctx context.Context, chatID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM chats WHERE id=$1 AND (user1_id=$2 OR user2_id=$2))`, chatID, userID)
	return exists, err
}

// GetThread loads the chat for a participant and marks it read on their side.
func (r *ChatRepo) GetThread(ctx context.Context, chatID int, userID int) (models.Thread, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, `UPDATE chats SET
        user1_read = CASE WHEN user1_id=$2 THEN TRUE ELSE user1_read END,
        user2_read = CASE WHEN user2_id=$2 THEN TRUE ELSE user2_read END
        WHERE id=$1 AND (user1_id=$2 OR user2_id=$2) RETURNING `+chatColumns, chatID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Thread{}, ErrChatNotFound
	}
	if err != nil {
		return models.Thread{}, err
	}
	return loadThread(ctx, r.db, chat)
}

// PostMessage appends a message and debits the author's wallet in one transaction.
// When the balance cannot cover cost nothing is written and ErrInsufficientFunds is returned.
func (r *ChatRepo) PostMessage(ctx context.Context, chatID int, authorID int, body string, cost int) (msg models.Message, balance int, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var chat models.Chat
	if err = tx.GetContext(ctx, &chat, `SELECT `+chatColumns+` FROM chats WHERE id=$1 AND (user1_id=$2 OR user2_id=$2) FOR UPDATE`, chatID, authorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrChatNotFound
		}
		return models.Message{}, 0, err
	}

	if balance, err = debitWallet(ctx, tx, authorID, cost, models.WalletMessageDebit, "chat:"+strconv.Itoa(chatID)); err != nil {
		return models.Message{}, 0, err
	}

	if err = tx.GetContext(ctx, &msg, `INSERT INTO chat_messages (chat_id, author_id, body, created_at) VALUES ($1, $2, $3, $4)
        RETURNING id, chat_id, author_id, body, created_at`, chatID, authorID, body, r.now()); err != nil {
		return models.Message{}, 0, err
	}

	user1Read, user2Read := models.ReadFlagsFor(authorID, chat.User1ID, chat.User2ID)
	if _, err = tx.ExecContext(ctx, `UPDATE chats SET user1_read=$2, user2_read=$3, last_activity_at=$4 WHERE id=$1`,
		chatID, user1Read, user2Read, msg.CreatedAt); err != nil {
		return models.Message{}, 0, err
	}

	if err = tx.Commit(); err != nil {
		return models.Message{}, 0, err
	}
	return msg, balance, nil
}

// ListChats returns the chats the user received and the chats the user started,
// each ordered by last activity, newest first.
func (r *ChatRepo) ListChats(ctx context.Context, userID int) ([]models.ChatSummary, []models.ChatSummary, error) {
	received, err := r.listChats(ctx, userID, `c.initiator_id <> $1`)
	if err != nil {
		return nil, nil, err
	}
	sent, err := r.listChats(ctx, userID, `c.initiator_id = $1`)
	if err != nil {
		return nil, nil, err
	}
	return received, sent, nil
}

func (r *ChatRepo) listChats(ctx context.Context, userID int, initiatorFilter string) ([]models.ChatSummary, error) {
	query := `SELECT c.id, u.id AS other_id, u.fullname AS other_fullname, u.image AS other_image, u.online AS other_online,
        CASE WHEN c.user1_id=$1 THEN c.user1_read ELSE c.user2_read END AS read, c.last_activity_at
        FROM chats c
        JOIN users u ON u.id = CASE WHEN c.user1_id=$1 THEN c.user2_id ELSE c.user1_id END
        WHERE (c.user1_id=$1 OR c.user2_id=$1) AND ` + initiatorFilter + `
        ORDER BY c.last_activity_at DESC`
	summaries := []models.ChatSummary{}
	err := r.db.SelectContext(ctx, &summaries, query, userID)
	return summaries, err
}

// DeleteChat removes a chat the user participates in.
func (r *ChatRepo) DeleteChat(ctx context.Context, chatID int, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chats WHERE id=$1 AND (user1_id=$2 OR user2_id=$2)`, chatID, userID)
	return requireAffected(res, err, ErrChatNotFound)
}

func loadThread(ctx context.Context, q sqlx.QueryerContext, chat models.Chat) (models.Thread, error) {
	var users []models.UserCard
	if err := sqlx.SelectContext(ctx, q, &users, `SELECT id, fullname, image, online FROM users WHERE id IN ($1, $2)`, chat.User1ID, chat.User2ID); err != nil {
		return models.Thread{}, err
	}

	thread := models.Thread{Chat: chat, Messages: []models.Message{}}
	for _, u := range users {
		if u.ID == chat.SenderID() {
			thread.Sender = u
		} else {
			thread.Receiver = u
		}
	}

	if err := sqlx.SelectContext(ctx, q, &thread.Messages, `SELECT id, chat_id, author_id, body, created_at
        FROM chat_messages WHERE chat_id=$1 ORDER BY created_at ASC, id ASC`, chat.ID); err != nil {
		return models.Thread{}, err
	}
	return thread, nil
}
