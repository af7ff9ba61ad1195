package reminder

import (
	"fmt"
	"strings"

	"Gin_postgres_redis_device_rental/models"
)

// When renders a day offset: 0 "today", 1 "tomorrow", otherwise "in N days".
func When(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

// Render builds the subject and body of the reminder for l, due in days.
func Render(l models.Loan, days int) (subject, body string) {
	name, serial, location := "device", "-", "-"
	if l.Device != nil {
		name, serial, location = l.Device.Name, l.Device.SerialNumber, l.Device.Location
	}
	username := "there"
	if l.User != nil && l.User.Username != "" {
		username = l.User.Username
	}
	due := l.DueDate.Format(models.DateLayout)

	subject = fmt.Sprintf("Reminder: return %q %s (%s)", name, When(days), due)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", username)
	fmt.Fprintf(&b, "the device you borrowed is due back %s.\n\n", When(days))
	fmt.Fprintf(&b, "Device:   %s\n", name)
	fmt.Fprintf(&b, "Serial:   %s\n", serial)
	fmt.Fprintf(&b, "Location: %s\n", location)
	fmt.Fprintf(&b, "Due date: %s\n", due)
	return subject, b.String()
}
