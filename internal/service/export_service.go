package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	"github.com/keikchoco/alternative-learning-system/pkg/export"
	"github.com/keikchoco/alternative-learning-system/pkg/storage"
)

type exportStudentRepository interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds report datasets from the tracker's collections and
// persists the rendered files behind signed download tokens.
type ExportService struct {
	students  exportStudentRepository
	barangays barangayRepository
	modules   moduleRepository
	progress  progressRepository
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(
	students exportStudentRepository,
	barangays barangayRepository,
	modules moduleRepository,
	progress progressRepository,
	store fileStorage,
	signer *storage.SignedURLSigner,
	cfg ExportConfig,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		students:  students,
		barangays: barangays,
		modules:   modules,
		progress:  progress,
		storage:   store,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate builds the dataset for a job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/reports/download/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	scope := job.Params.BarangayID
	if scope == "" {
		scope = job.Params.StudentID
	}
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), sanitizeFilename(scope), timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "all"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeBarangayRoster:
		return s.buildRosterDataset(ctx, job.Params)
	case models.ReportTypeStudentProgress:
		return s.buildProgressDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildRosterDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	barangays, err := s.barangays.List(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	names := make(map[string]string, len(barangays))
	for _, b := range barangays {
		names[b.ID] = b.Name
	}

	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		if params.BarangayID != "" && st.BarangayID != params.BarangayID {
			continue
		}
		rows = append(rows, map[string]string{
			"LRN":             st.LRN,
			"Name":            st.Name,
			"Status":          string(st.Status),
			"Gender":          st.Gender,
			"Barangay":        names[st.BarangayID],
			"Program":         st.Program,
			"Modality":        st.Modality,
			"Enrollment Date": st.EnrollmentDate,
		})
	}
	dataset := export.Dataset{
		Headers: []string{"LRN", "Name", "Status", "Gender", "Barangay", "Program", "Modality", "Enrollment Date"},
		Rows:    rows,
	}
	scope := "All Barangays"
	if params.BarangayID != "" {
		if name, ok := names[params.BarangayID]; ok {
			scope = name
		} else {
			scope = params.BarangayID
		}
	}
	return dataset, fmt.Sprintf("Learner Roster %s", scope), nil
}

func (s *ExportService) buildProgressDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	student, err := s.students.FindByID(ctx, params.StudentID)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load student %s: %w", params.StudentID, err)
	}
	records, err := s.progress.List(ctx, models.ProgressFilter{StudentID: params.StudentID})
	if err != nil {
		return export.Dataset{}, "", err
	}
	modules, err := s.modules.List(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	titles := make(map[string]string, len(modules))
	for _, m := range modules {
		titles[m.ID] = m.Title
	}

	rows := []map[string]string{}
	for _, record := range records {
		moduleTitle := titles[record.ModuleID]
		if moduleTitle == "" {
			moduleTitle = record.ModuleID
		}
		for _, act := range record.Activities {
			percent := ""
			if act.Total > 0 {
				percent = fmt.Sprintf("%.1f", act.Score/act.Total*100)
			}
			rows = append(rows, map[string]string{
				"Module":      moduleTitle,
				"Activity":    act.Name,
				"Type":        string(act.Type),
				"Score":       fmt.Sprintf("%.2f", act.Score),
				"Total":       fmt.Sprintf("%.2f", act.Total),
				"Percent (%)": percent,
				"Date":        act.Date,
				"Remark":      act.Remark,
			})
		}
	}
	dataset := export.Dataset{
		Headers: []string{"Module", "Activity", "Type", "Score", "Total", "Percent (%)", "Date", "Remark"},
		Rows:    rows,
	}
	return dataset, fmt.Sprintf("Progress Report %s", student.Name), nil
}
