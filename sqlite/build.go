package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/rosdoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ rosdoc.BuildService = (*BuildService)(nil)

// BuildService implements rosdoc.BuildService using SQLite.
type BuildService struct {
	db *DB
}

// NewBuildService creates a new BuildService.
func NewBuildService(db *DB) *BuildService {
	return &BuildService{db: db}
}

// CreateBuildResult stores a build result, assigning its ID and CreatedAt.
func (s *BuildService) CreateBuildResult(ctx context.Context, result *rosdoc.BuildResult) error {
	if err := result.Validate(); err != nil {
		return err
	}

	result.ID = uuid.New().String()
	result.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO builds (id, run_id, package_name, package_path, status, message, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, result.ID, result.RunID, result.PackageName, result.PackagePath, int(result.Status),
		result.Message, int64(result.Duration), result.CreatedAt.Format(time.RFC3339))

	return err
}

// FindBuildResults retrieves results matching the filter, newest first.
// Results recorded within the same second keep reverse insertion order.
func (s *BuildService) FindBuildResults(ctx context.Context, filter rosdoc.BuildResultFilter) ([]*rosdoc.BuildResult, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, run_id, package_name, package_path, status, message, duration_ns, created_at
		FROM builds WHERE 1=1`)

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.PackageName != nil {
		query.WriteString(" AND package_name = ?")
		args = append(args, *filter.PackageName)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, int(*filter.Status))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*rosdoc.BuildResult
	for rows.Next() {
		var result rosdoc.BuildResult
		var status int
		var durationNS int64
		var createdAt string

		if err := rows.Scan(&result.ID, &result.RunID, &result.PackageName, &result.PackagePath,
			&status, &result.Message, &durationNS, &createdAt); err != nil {
			return nil, err
		}

		result.Status = rosdoc.BuildStatus(status)
		result.Duration = time.Duration(durationNS)
		if result.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		results = append(results, &result)
	}

	return results, rows.Err()
}
