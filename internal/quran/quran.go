package quran

// Ayah counts per surah in the standard Hafs numbering (6236 total).
var ayahCounts = [114]int{
	7, 286, 200, 176, 120, 165, 206, 75, 129, 109,
	123, 111, 43, 52, 99, 128, 111, 110, 98, 135,
	112, 78, 118, 64, 77, 227, 93, 88, 69, 60,
	34, 30, 73, 54, 45, 83, 182, 88, 75, 85,
	54, 53, 89, 59, 37, 35, 38, 29, 18, 45,
	60, 49, 62, 55, 78, 96, 29, 22, 24, 13,
	14, 11, 11, 18, 12, 12, 30, 52, 52, 44,
	28, 28, 20, 56, 40, 31, 50, 40, 46, 42,
	29, 19, 36, 25, 22, 17, 19, 26, 30, 20,
	15, 21, 11, 8, 8, 19, 5, 8, 8, 11,
	11, 8, 3, 9, 5, 4, 7, 3, 6, 3,
	5, 4, 5, 6,
}

var surahNames = [114]string{
	"Al-Fatihah", "Al-Baqarah", "Ali 'Imran", "An-Nisa", "Al-Ma'idah",
	"Al-An'am", "Al-A'raf", "Al-Anfal", "At-Tawbah", "Yunus",
	"Hud", "Yusuf", "Ar-Ra'd", "Ibrahim", "Al-Hijr",
	"An-Nahl", "Al-Isra", "Al-Kahf", "Maryam", "Taha",
	"Al-Anbya", "Al-Hajj", "Al-Mu'minun", "An-Nur", "Al-Furqan",
	"Ash-Shu'ara", "An-Naml", "Al-Qasas", "Al-'Ankabut", "Ar-Rum",
	"Luqman", "As-Sajdah", "Al-Ahzab", "Saba", "Fatir",
	"Ya-Sin", "As-Saffat", "Sad", "Az-Zumar", "Ghafir",
	"Fussilat", "Ash-Shuraa", "Az-Zukhruf", "Ad-Dukhan", "Al-Jathiyah",
	"Al-Ahqaf", "Muhammad", "Al-Fath", "Al-Hujurat", "Qaf",
	"Adh-Dhariyat", "At-Tur", "An-Najm", "Al-Qamar", "Ar-Rahman",
	"Al-Waqi'ah", "Al-Hadid", "Al-Mujadila", "Al-Hashr", "Al-Mumtahanah",
	"As-Saf", "Al-Jumu'ah", "Al-Munafiqun", "At-Taghabun", "At-Talaq",
	"At-Tahrim", "Al-Mulk", "Al-Qalam", "Al-Haqqah", "Al-Ma'arij",
	"Nuh", "Al-Jinn", "Al-Muzzammil", "Al-Muddaththir", "Al-Qiyamah",
	"Al-Insan", "Al-Mursalat", "An-Naba", "An-Nazi'at", "'Abasa",
	"At-Takwir", "Al-Infitar", "Al-Mutaffifin", "Al-Inshiqaq", "Al-Buruj",
	"At-Tariq", "Al-A'la", "Al-Ghashiyah", "Al-Fajr", "Al-Balad",
	"Ash-Shams", "Al-Layl", "Ad-Duhaa", "Ash-Sharh", "At-Tin",
	"Al-'Alaq", "Al-Qadr", "Al-Bayyinah", "Az-Zalzalah", "Al-'Adiyat",
	"Al-Qari'ah", "At-Takathur", "Al-'Asr", "Al-Humazah", "Al-Fil",
	"Quraysh", "Al-Ma'un", "Al-Kawthar", "Al-Kafirun", "An-Nasr",
	"Al-Masad", "Al-Ikhlas", "Al-Falaq", "An-Nas",
}

// startAyahIDs[i] is the global id of ayah 1 of surah i+1, precomputed once.
var startAyahIDs = func() [114]int {
	var starts [114]int
	id := 1
	for i, n := range ayahCounts {
		starts[i] = id
		id += n
	}
	return starts
}()

// TotalAyahs is the number of ayahs in the mushaf
const TotalAyahs = 6236

// SurahInfo describes one surah's position in the global ayah id sequence
type SurahInfo struct {
	Number      int
	Name        string
	AyahCount   int
	StartAyahID int
	EndAyahID   int
}

// GetSurahInfo returns the surah descriptor, or nil outside 1..114
func GetSurahInfo(surahNumber int) *SurahInfo {
	if surahNumber < 1 || surahNumber > 114 {
		return nil
	}
	i := surahNumber - 1
	return &SurahInfo{
		Number:      surahNumber,
		Name:        surahNames[i],
		AyahCount:   ayahCounts[i],
		StartAyahID: startAyahIDs[i],
		EndAyahID:   startAyahIDs[i] + ayahCounts[i] - 1,
	}
}

// AyahID converts a (surah, ayah-number) pair to the global ayah id.
// Returns 0 for out-of-range input.
func AyahID(surahNumber, ayahNumber int) int {
	if surahNumber < 1 || surahNumber > 114 {
		return 0
	}
	if ayahNumber < 1 || ayahNumber > ayahCounts[surahNumber-1] {
		return 0
	}
	return startAyahIDs[surahNumber-1] + ayahNumber - 1
}

// Locate converts a global ayah id back to its (surah, ayah-number) pair.
// Returns (0, 0) for ids outside 1..6236.
func Locate(ayahID int) (surahNumber, ayahNumber int) {
	if ayahID < 1 || ayahID > TotalAyahs {
		return 0, 0
	}
	// Binary search over the 114 start ids.
	lo, hi := 0, 113
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if startAyahIDs[mid] <= ayahID {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, ayahID - startAyahIDs[lo] + 1
}
