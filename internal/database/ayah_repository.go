package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/hifzbot/pkg/models"
)

// AyahRepository handles database operations for the ayah text catalog
type AyahRepository struct{}

// NewAyahRepository creates a new repository instance
func NewAyahRepository() *AyahRepository {
	return &AyahRepository{}
}

// GetByID returns a catalog row by global ayah id, or nil
func (r *AyahRepository) GetByID(ayahID int) (*models.Ayah, error) {
	var ayah models.Ayah
	err := DB.Get(&ayah, "SELECT * FROM ayahs WHERE id = $1", ayahID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ayah: %v", err)
	}
	return &ayah, nil
}

// GetByIDs returns catalog rows for a set of ids in one query, keyed
// by id. Ids without a catalog row are simply absent from the map.
func (r *AyahRepository) GetByIDs(ayahIDs []int) (map[int]models.Ayah, error) {
	out := make(map[int]models.Ayah, len(ayahIDs))
	if len(ayahIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In("SELECT * FROM ayahs WHERE id IN (?)", ayahIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build ayah batch query: %v", err)
	}
	var ayahs []models.Ayah
	if err := DB.Select(&ayahs, DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get ayahs: %v", err)
	}
	for _, ayah := range ayahs {
		out[ayah.ID] = ayah
	}
	return out, nil
}

// CreateOrUpdate persists one catalog row
func (r *AyahRepository) CreateOrUpdate(ayah *models.Ayah) error {
	if Type() == "sqlite" {
		_, err := DB.Exec(`
			INSERT INTO ayahs (id, surah_number, ayah_number, text, translation)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				surah_number = excluded.surah_number,
				ayah_number = excluded.ayah_number,
				text = excluded.text,
				translation = excluded.translation,
				updated_at = CURRENT_TIMESTAMP
		`, ayah.ID, ayah.SurahNumber, ayah.AyahNumber, ayah.Text, ayah.Translation)
		if err != nil {
			return fmt.Errorf("failed to upsert ayah: %v", err)
		}
		return nil
	}

	_, err := DB.Exec(`
		INSERT INTO ayahs (id, surah_number, ayah_number, text, translation)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			surah_number = EXCLUDED.surah_number,
			ayah_number = EXCLUDED.ayah_number,
			text = EXCLUDED.text,
			translation = EXCLUDED.translation,
			updated_at = NOW()
	`, ayah.ID, ayah.SurahNumber, ayah.AyahNumber, ayah.Text, ayah.Translation)
	if err != nil {
		return fmt.Errorf("failed to upsert ayah: %v", err)
	}
	return nil
}

// CountBySurah returns how many catalog rows exist for a surah
func (r *AyahRepository) CountBySurah(surahNumber int) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM ayahs WHERE surah_number = $1", surahNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to count ayahs: %v", err)
	}
	return count, nil
}
