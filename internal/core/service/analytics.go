package service

import (
	"strings"
	"time"

	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/ports"
)

const histogramMonths = 6

// RegistrationHistogram buckets user creation timestamps into the six
// consecutive calendar months ending at now's month, in chronological order.
// Matching is timezone-naive year-month equality; months with no signups
// stay in the result with a zero count, and users created outside the window
// are ignored.
func RegistrationHistogram(users []domain.User, now time.Time) []ports.MonthBucket {
	// Anchor on the first of the month so AddDate never skips short months.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	buckets := make([]ports.MonthBucket, 0, histogramMonths)
	index := make(map[string]int, histogramMonths)
	for i := histogramMonths - 1; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		index[yearMonth(m)] = len(buckets)
		buckets = append(buckets, ports.MonthBucket{
			Year:  m.Year(),
			Month: m.Month(),
			Label: m.Format("Jan '06"),
		})
	}

	for _, u := range users {
		if i, ok := index[yearMonth(u.CreatedAt)]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

func yearMonth(t time.Time) string {
	return t.Format("2006-01")
}

// RoleCounts aggregates the directory by role. Users with an unknown role
// count toward the total only.
func RoleCounts(users []domain.User) ports.RoleStats {
	stats := ports.RoleStats{Total: len(users)}
	for _, u := range users {
		switch u.Role {
		case domain.RoleAdmin:
			stats.Admins++
		case domain.RoleManager:
			stats.Managers++
		case domain.RoleUser:
			stats.Users++
		}
	}
	return stats
}

// FilterDirectory applies the role filter and the case-insensitive search
// over name and email, combined with logical AND. Role "all" or "" keeps
// every user. The input slice is never mutated and order is preserved.
func FilterDirectory(users []domain.User, f ports.DirectoryFilter) []domain.User {
	role := f.Role
	if role == "all" {
		role = ""
	}
	search := strings.ToLower(f.Search)

	matched := make([]domain.User, 0, len(users))
	for _, u := range users {
		if role != "" && u.Role != role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		matched = append(matched, u)
	}
	return matched
}
