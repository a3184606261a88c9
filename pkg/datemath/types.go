package datemath

// TimeOfDay is a wall-clock time parsed from user input such as
// "16:00", "4pm" or "4:30 PM".
type TimeOfDay struct {
	Hour   int
	Minute int
}
