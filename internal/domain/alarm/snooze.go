package alarm

// MaxSnoozeMinutes caps a single snooze at one day.
const MaxSnoozeMinutes = 24 * 60

// CheckSnoozeMinutes rejects snooze lengths outside [0, MaxSnoozeMinutes].
// Zero asks for the configured default.
func CheckSnoozeMinutes(minutes int) error {
	if minutes < 0 || minutes > MaxSnoozeMinutes {
		return Errorf(ErrInvalid, "snooze minutes must be between 0 and %d, got %d", MaxSnoozeMinutes, minutes)
	}

	return nil
}
