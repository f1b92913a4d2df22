package migration

import "time"

// DefaultModules is the starting set used when no snapshot exists yet.
// UmbraErrors was the first module moved, so it is recorded as completed on
// the day the tracker is initialised.
func DefaultModules(now time.Time) []Module {
	today := DateOf(now)
	return []Module{
		{
			Name:          "UmbraErrors",
			Status:        Completed,
			Dependents:    []string{"CoreDTOs", "UserDefaults", "SecurityInterfaces"},
			MigrationDate: &today,
			Notes:         "Successfully migrated to Alpha Dot Five architecture.",
		},
		{
			Name:         "CoreDTOs",
			Status:       InProgress,
			Dependencies: []string{"UmbraErrors"},
			Dependents:   []string{"UserDefaults", "SecurityInterfaces"},
			Notes:        "Dependencies updated to use migrated UmbraErrors module.",
		},
		{
			Name:         "UserDefaults",
			Status:       NotStarted,
			Dependencies: []string{"UmbraErrors", "CoreDTOs"},
			Dependents:   []string{"SecurityInterfaces"},
			Notes:        "Planned for migration after CoreDTOs is complete.",
		},
		{
			Name:         "SecurityInterfaces",
			Status:       NotStarted,
			Dependencies: []string{"UmbraErrors", "CoreDTOs", "UserDefaults"},
			Notes:        "Depends on UserDefaults migration.",
		},
		{Name: "Notification", Status: NotStarted, Dependencies: []string{"UmbraErrors"}},
		{Name: "Scheduling", Status: NotStarted, Dependencies: []string{"UmbraErrors"}},
		{Name: "FileSystemTypes", Status: NotStarted, Dependents: []string{"CoreDTOs"}},
		{Name: "SecurityTypes", Status: NotStarted, Dependents: []string{"CoreDTOs", "SecurityInterfaces"}},
	}
}
