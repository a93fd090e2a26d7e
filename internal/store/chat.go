package store

import (
	"encoding/json"
	"fmt"
)

// ─── Chat history ────────────────────────────────────────────────────────────

// AppendChatMessage persists one chat turn and fills in its id.
func (s *Store) AppendChatMessage(m *ChatMessage) error {
	if m.ConversationID == "" {
		m.ConversationID = DefaultConversation
	}
	if m.Timestamp == "" {
		m.Timestamp = Now()
	}
	res, err := s.execHook(s.db,
		`INSERT INTO chat_messages (agent, conversation_id, role, content, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		m.Agent, m.ConversationID, m.Role, m.Content, m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("store: append chat message: %w", err)
	}
	m.ID, _ = res.LastInsertId()
	return nil
}

// ChatHistory returns the messages matching q in chronological order.
func (s *Store) ChatHistory(q HistoryQuery) ([]ChatMessage, error) {
	query := `SELECT id, agent, conversation_id, role, content, timestamp FROM chat_messages WHERE agent = ?`
	args := []any{q.Agent}

	if q.ConversationID != "" {
		query += " AND conversation_id = ?"
		args = append(args, q.ConversationID)
	}
	if q.Date != "" {
		query += " AND timestamp LIKE ?"
		args = append(args, q.Date+"%")
	}
	query += " ORDER BY timestamp, id"

	rows, err := s.queryHook(s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: chat history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.Agent, &m.ConversationID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[len(results)-q.Limit:]
	}
	return results, nil
}

// Conversations lists the conversation ids of an agent, most recent first.
func (s *Store) Conversations(agent string) ([]string, error) {
	rows, err := s.queryHook(s.db,
		`SELECT conversation_id FROM chat_messages WHERE agent = ?
		 GROUP BY conversation_id ORDER BY MAX(timestamp) DESC`, agent)
	if err != nil {
		return nil, fmt.Errorf("store: conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteConversation removes every message of one conversation and
// returns how many were deleted.
func (s *Store) DeleteConversation(agent, conversationID string) (int64, error) {
	res, err := s.execHook(s.db,
		`DELETE FROM chat_messages WHERE agent = ? AND conversation_id = ?`, agent, conversationID)
	if err != nil {
		return 0, fmt.Errorf("store: delete conversation: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ─── Settings ────────────────────────────────────────────────────────────────

// SaveSetting stores value as JSON under key.
func (s *Store) SaveSetting(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode setting %q: %w", key, err)
	}
	_, err = s.execHook(s.db,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(raw),
	)
	if err != nil {
		return fmt.Errorf("store: save setting %q: %w", key, err)
	}
	return nil
}

// Setting decodes the value stored under key into dest. It reports false
// when the key is absent.
func (s *Store) Setting(key string, dest any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&raw)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: get setting %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("store: decode setting %q: %w", key, err)
	}
	return true, nil
}
