package models

import "time"

// Ayah is one catalog row of Qur'an text, keyed by the global ayah id
type Ayah struct {
	ID          int       `json:"id" db:"id"` // Global ayah id, 1-6236
	SurahNumber int       `json:"surah_number" db:"surah_number"`
	AyahNumber  int       `json:"ayah_number" db:"ayah_number"`
	Text        string    `json:"text" db:"text"`
	Translation string    `json:"translation" db:"translation"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
