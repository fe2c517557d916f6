package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"examhub/cmd/seed_initial_data/internal/seedmodels"
	"examhub/internal/config"
	"examhub/internal/database"
	"examhub/internal/domain"
	"examhub/internal/logger"
	"examhub/internal/repository"
	"examhub/internal/util"

	"go.uber.org/zap"
)

const (
	seedFilePath = "config/seed_data/demo_exams.json"
)

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting demo exam seeding...")
	db, err := database.NewSQLXOracleDB(cfg.DB, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	path := seedFilePath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	log.Info("Loading seed data from file", zap.String("path", path))
	byteValue, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", path), zap.Error(err))
	}

	var exams []seedmodels.SeedExam
	if err := json.Unmarshal(byteValue, &exams); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	txManager := repository.NewTransactionManagerAdapter(db)
	now := time.Now().UTC()
	for _, se := range exams {
		err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			_, err := seedExam(txCtx, repository.GetExecutor(txCtx, db), se, now)
			return err
		})
		if err != nil {
			log.Error("Error seeding exam, transaction rolled back", zap.String("title", se.Title), zap.Error(err))
		}
	}
	log.Info("Demo exam seeding completed.", zap.Int("exams", len(exams)))
}

// seedExam inserts one exam with its questions, and its assignment and class
// roster when present. It returns the new exam id.
func seedExam(ctx context.Context, exec repository.DBTX, se seedmodels.SeedExam, now time.Time) (string, error) {
	log := logger.Get()

	examID := util.NewULID()
	var totalPoints float64
	for _, q := range se.Questions {
		totalPoints += q.MaxScore
	}
	mode := se.Mode
	if mode == "" {
		mode = "practice"
	}

	_, err := exec.ExecContext(ctx, `INSERT INTO exams (id, title, description, subject, duration_minutes, exam_mode,
		total_questions, total_points, is_published, created_by, created_at, updated_at)
	VALUES (:1, :2, :3, :4, :5, :6, :7, :8, 1, :9, :10, :11)`,
		examID, se.Title, se.Description, se.Subject, se.DurationMinutes, mode,
		len(se.Questions), util.RoundScore(totalPoints), se.CreatedBy, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert exam %q: %w", se.Title, err)
	}

	for i, sq := range se.Questions {
		qType := domain.QuestionType(sq.Type)
		if !qType.Valid() {
			return "", fmt.Errorf("question %d of %q: unknown type %q", i+1, se.Title, sq.Type)
		}
		if _, err := domain.DecodeAnswerKey(qType, sq.CorrectAnswer); err != nil {
			return "", fmt.Errorf("question %d of %q: %w", i+1, se.Title, err)
		}

		options, err := json.Marshal(sq.Options)
		if err != nil {
			return "", err
		}
		var key interface{}
		if len(sq.CorrectAnswer) > 0 {
			key = string(sq.CorrectAnswer)
		}

		questionID := util.NewULID()
		_, err = exec.ExecContext(ctx, `INSERT INTO questions (id, question_type, content, options_json, correct_answer, explanation, points, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`,
			questionID, sq.Type, sq.Content, string(options), key, sq.Explanation, sq.MaxScore, now, now)
		if err != nil {
			return "", fmt.Errorf("failed to insert question '%s': %w", firstN(sq.Content, 40), err)
		}

		_, err = exec.ExecContext(ctx, `INSERT INTO exam_questions (id, exam_id, question_id, question_order, max_score, section_label)
		VALUES (:1, :2, :3, :4, :5, :6)`,
			util.NewULID(), examID, questionID, i+1, sq.MaxScore, util.StringToNullString(sq.Section))
		if err != nil {
			return "", fmt.Errorf("failed to link question %d: %w", i+1, err)
		}
	}

	if a := se.Assignment; a != nil {
		if err := seedAssignment(ctx, exec, examID, a, now); err != nil {
			return "", err
		}
	}

	log.Info("Seeded exam", zap.String("id", examID), zap.String("title", se.Title), zap.Int("questions", len(se.Questions)))
	return examID, nil
}

func seedAssignment(ctx context.Context, exec repository.DBTX, examID string, a *seedmodels.SeedAssignment, now time.Time) error {
	start := now.Add(time.Duration(a.StartsInMinutes) * time.Minute)
	end := start.Add(time.Duration(a.OpenForMinutes) * time.Minute)
	attempts := a.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	assignmentID := util.NewULID()
	_, err := exec.ExecContext(ctx, `INSERT INTO exam_assignments (id, exam_id, class_id, start_time, end_time, max_attempts, allow_late_submission, created_at)
	VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`,
		assignmentID, examID, a.ClassID, start, end, attempts, util.BoolToNumber(a.AllowLateSubmission), now)
	if err != nil {
		return fmt.Errorf("failed to insert assignment for class %s: %w", a.ClassID, err)
	}

	members := make([][2]string, 0, len(a.Students)+len(a.Teachers))
	for _, s := range a.Students {
		members = append(members, [2]string{s, string(domain.RoleStudent)})
	}
	for _, t := range a.Teachers {
		members = append(members, [2]string{t, string(domain.RoleTeacher)})
	}
	for _, m := range members {
		_, err := exec.ExecContext(ctx, `MERGE INTO class_members cm
		USING (SELECT :1 AS class_id, :2 AS user_id, :3 AS member_role FROM dual) src
		ON (cm.class_id = src.class_id AND cm.user_id = src.user_id)
		WHEN NOT MATCHED THEN INSERT (class_id, user_id, member_role) VALUES (src.class_id, src.user_id, src.member_role)`,
			a.ClassID, m[0], m[1])
		if err != nil {
			return fmt.Errorf("failed to add %s to class %s: %w", m[0], a.ClassID, err)
		}
	}

	logger.Get().Info("Seeded assignment", zap.String("id", assignmentID), zap.String("class", a.ClassID),
		zap.Time("start", start), zap.Time("end", end))
	return nil
}
