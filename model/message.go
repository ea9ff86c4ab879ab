package model

import (
	"encoding/hex"
	"time"

	"github.com/pborman/uuid"
)

// message states in the transfer_message table.
const (
	StatePending  = 0
	StateDone     = 1
	StateRejected = -1
)

// MessageRecord is one queued transfer message.
type MessageRecord struct {
	ID     int64
	Rid    string
	Data   []byte
	Hash   string
	State  int
	Reason string
	Ts     int64
}

// StoreMessage queues a raw transfer message encoding and returns its record id.
func StoreMessage(data []byte) (string, error) {
	rid := uuid.NewRandom().String()
	_, err := db.Exec("insert into `transfer_message`(`rid`,`data`,`state`,`ts`) values(?,?,?,?)", rid, hex.EncodeToString(data), StatePending, time.Now().Unix())
	if err != nil {
		return "", err
	}
	return rid, nil
}

// PendingMessages returns the queued messages that have not been executed yet,
// oldest first.
func PendingMessages(limit int) ([]*MessageRecord, error) {
	rows, err := db.Query("select `id`,`rid`,`data`,`ts` from `transfer_message` where `state`=? order by `id` limit ?", StatePending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mrs []*MessageRecord
	for rows.Next() {
		mr := &MessageRecord{State: StatePending}
		var data string
		if err := rows.Scan(&mr.ID, &mr.Rid, &data, &mr.Ts); err != nil {
			return nil, err
		}
		if mr.Data, err = hex.DecodeString(data); err != nil {
			return nil, err
		}
		mrs = append(mrs, mr)
	}
	return mrs, rows.Err()
}

// UpdateMessageState records the execution outcome of a queued message.
func UpdateMessageState(rid, hash string, state int, reason string) error {
	_, err := db.Exec("update `transfer_message` set `hash`=?, `state`=?, `reason`=? where `rid`=?", hash, state, reason, rid)
	return err
}
