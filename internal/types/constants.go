package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Role is a closed set; every authorization rule switches over it.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleWorker  Role = "Worker"
)

type Availability string

const (
	AvailabilityFree Availability = "Free"
	AvailabilityBusy Availability = "Busy"
)

type ProjectStatus string

const (
	ProjectStarted  ProjectStatus = "Started"
	ProjectOngoing  ProjectStatus = "Ongoing"
	ProjectFinished ProjectStatus = "Finished"
)

type TaskStatus string

const (
	TaskOpen       TaskStatus = "Open"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

type DayOffType string

const (
	DayOffHoliday   DayOffType = "Holiday"
	DayOffSickLeave DayOffType = "Sick Leave"
	DayOffRegular   DayOffType = "Day Off"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleWorker:
		return true
	}
	return false
}

func (a Availability) Valid() bool {
	return a == AvailabilityFree || a == AvailabilityBusy
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStarted, ProjectOngoing, ProjectFinished:
		return true
	}
	return false
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskDone:
		return true
	}
	return false
}

func (t DayOffType) Valid() bool {
	switch t {
	case DayOffHoliday, DayOffSickLeave, DayOffRegular:
		return true
	}
	return false
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
