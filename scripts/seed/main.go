// Seed fills the database with demo courses and tasks for one device.
// Run from project root: go run ./scripts/seed [device-id]
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"tugasku/internal/database"
	"tugasku/pkg/models"
	"tugasku/internal/repository"
)

func main() {
	loadEnvFile(".env")

	ctx := context.Background()
	db := database.InitDB(ctx)
	if db == nil {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set or DB connection failed")
		os.Exit(1)
	}
	if err := database.MigrateOrCreateSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	deviceID := "seed-device"
	if len(os.Args) > 1 {
		deviceID = os.Args[1]
	}

	courses := repository.NewCourseStore()
	tasks := repository.NewTaskStore()

	courseNames := []struct{ name, code string }{
		{"Algoritma dan Struktur Data", "IF2110"},
		{"Basis Data", "IF3140"},
		{"Jaringan Komputer", "IF3130"},
	}
	var courseIDs []string
	for _, cn := range courseNames {
		c := models.Course{DeviceID: deviceID, Name: cn.name, Code: cn.code}
		if err := courses.Create(ctx, &c); err != nil {
			fmt.Fprintln(os.Stderr, "Insert course failed:", err)
			os.Exit(1)
		}
		courseIDs = append(courseIDs, c.ID)
	}

	priorities := []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow}
	statuses := []models.Status{models.StatusPending, models.StatusInProgress, models.StatusDone}
	const total = 30
	for i := 0; i < total; i++ {
		due := models.NewDate(time.Now().AddDate(0, 0, i%14-3))
		t := models.Task{
			DeviceID:    deviceID,
			Title:       fmt.Sprintf("Tugas %d", i+1),
			Description: fmt.Sprintf("Deskripsi tugas %d", i+1),
			Priority:    priorities[i%len(priorities)],
			Status:      statuses[i%len(statuses)],
			DueDate:     &due,
		}
		if i%4 != 0 {
			t.CourseID = &courseIDs[i%len(courseIDs)]
		}
		if err := tasks.Create(ctx, &t); err != nil {
			fmt.Fprintln(os.Stderr, "Insert task failed:", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Done: %d courses, %d tasks for device %s\n", len(courseIDs), total, deviceID)
}

func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
			val = strings.Trim(val, `"`)
		} else if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
			val = strings.Trim(val, "'")
		}
		if key != "" && os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}
