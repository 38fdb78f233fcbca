package engine

// checkpointMinutes maps a checkpoint index to the minimum elapsed time
// before the next review. The early entries are sub-day so a freshly
// encoded ayah is drilled several times before the 1-day station begins;
// later entries mirror the station baselines and act as a floor the
// day-based schedule can never regress below.
var checkpointMinutes = []int{
	10,     // 0: right after encoding
	30,     // 1
	120,    // 2
	360,    // 3
	720,    // 4
	1440,   // 5: 1 day
	2880,   // 6: 2 days
	10080,  // 7: 7 days
	43200,  // 8: 30 days
	129600, // 9: 90 days
}

// stationBaselineDays maps a station (1..7) to its baseline review
// interval in days. Index 0 is unused.
var stationBaselineDays = [8]int{0, 1, 2, 4, 7, 14, 30, 90}

const (
	// MinStation and MaxStation bound the coarse review tier
	MinStation = 1
	MaxStation = 7
)

// maxCheckpoint is the highest earnable checkpoint index
var maxCheckpoint = len(checkpointMinutes) - 1

// CheckpointMinutes returns the elapsed-time threshold for a checkpoint,
// clamping out-of-range indexes into the table.
func CheckpointMinutes(checkpointIndex int) int {
	if checkpointIndex < 0 {
		checkpointIndex = 0
	}
	if checkpointIndex > maxCheckpoint {
		checkpointIndex = maxCheckpoint
	}
	return checkpointMinutes[checkpointIndex]
}

// StationBaselineDays returns the baseline interval for a station,
// clamping out-of-range stations into [1, 7].
func StationBaselineDays(station int) int {
	if station < MinStation {
		station = MinStation
	}
	if station > MaxStation {
		station = MaxStation
	}
	return stationBaselineDays[station]
}

// stationForCheckpoint derives the coarse tier from fine-grained progress
func stationForCheckpoint(checkpointIndex int) int {
	station := checkpointIndex + 1
	if station < MinStation {
		station = MinStation
	}
	if station > MaxStation {
		station = MaxStation
	}
	return station
}
