package entity

import "time"

// Match is one row per mutual like. The pair is stored in canonical order
// (User1ID < User2ID) so the unique index covers both swipe directions;
// concurrent mutual likes racing to close the pair are resolved by the
// constraint, not by application checks.
type Match struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	User1ID   int64     `gorm:"column:user1_id;not null;uniqueIndex:idx_matches_pair,priority:1"`
	User2ID   int64     `gorm:"column:user2_id;not null;uniqueIndex:idx_matches_pair,priority:2"`
	MatchedAt time.Time `gorm:"column:matched_at;autoCreateTime"`
}

func (Match) TableName() string {
	return "matches"
}

// CanonicalPair orders two user ids so the smaller one always lands in user1_id.
func CanonicalPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// OtherUser returns the peer of userID in the pair.
func (m *Match) OtherUser(userID int64) int64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}
