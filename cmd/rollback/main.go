// Command rollback forces a submission back to the waiting-to-be-graded
// state and clears its posted-results flag, so it re-enters the grading
// pool. With --check it only prints the submission's current snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	configs "grading_service/config"
	"grading_service/internal/repository"
	"grading_service/internal/service"
	"grading_service/pkg/db"
	"grading_service/pkg/logger"

	_ "github.com/lib/pq"
)

const usage = "Usage: rollback [--check] <submission_id>"

func main() {
	check := flag.Bool("check", false, "only inspect the specified submission")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	submissionID, err := uuid.Parse(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid submission id %q: %v\n", flag.Arg(0), err)
		os.Exit(2)
	}

	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pg, err := db.NewPostgres(db.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	admin := service.NewAdminService(
		repository.NewSubmissionRepository(pg.DB()),
		repository.NewGradeRepository(pg.DB()),
		log,
	)

	ctx := context.Background()

	if *check {
		if err := printSnapshot(ctx, admin, submissionID); err != nil {
			log.Fatalf("Failed to inspect submission %s: %v", submissionID, err)
		}
		return
	}

	if err := admin.Rollback(ctx, submissionID); err != nil {
		log.Fatalf("Failed to rollback submission %s: %v", submissionID, err)
	}
	fmt.Printf("Submission(id=%s) saved successfully.\n", submissionID)
}

func printSnapshot(ctx context.Context, admin *service.AdminService, id uuid.UUID) error {
	snapshot, err := admin.Inspect(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("submission_id           : %s\n", snapshot.ID)
	fmt.Printf("course_id               : %s\n", snapshot.CourseID)
	fmt.Printf("student_id              : %s\n", snapshot.StudentID)
	fmt.Printf("location                : %s\n", snapshot.Location)
	fmt.Printf("state                   : %s\n", snapshot.State)
	fmt.Printf("student_response        : %s\n", snapshot.Response)
	fmt.Printf("student_submission_time : %s\n", snapshot.SubmissionTime)
	fmt.Printf("posted_results          : %t\n", snapshot.PostedResults)
	if snapshot.LastScore != nil {
		fmt.Printf("last_score              : %d\n", *snapshot.LastScore)
	} else {
		fmt.Printf("last_score              : <none>\n")
	}
	if snapshot.LastFeedback != nil {
		fmt.Printf("last_feedback           : %s\n", *snapshot.LastFeedback)
	} else {
		fmt.Printf("last_feedback           : <none>\n")
	}
	return nil
}
