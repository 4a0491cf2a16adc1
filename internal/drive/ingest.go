package drive

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/salesmap/internal/service"
)

// IngestService runs a report straight from the exports in a Drive folder.
type IngestService struct {
	fetcher  *Fetcher
	reports  *service.ReportService
	inputDir string
}

func NewIngestService(fetcher *Fetcher, reports *service.ReportService) *IngestService {
	return &IngestService{
		fetcher: fetcher,
		reports: reports,
	}
}

// KeepInputs makes RunFolder also save the fetched workbooks under dir.
func (s *IngestService) KeepInputs(dir string) *IngestService {
	s.inputDir = dir
	return s
}

// RunFolder fetches the inputs in folderID and generates the report
// described by req. Files already present in req are overridden.
func (s *IngestService) RunFolder(ctx context.Context, folderID string, req service.ReportRequest) (*service.ReportResult, error) {
	files, err := s.fetcher.Fetch(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch drive inputs: %w", err)
	}

	if s.inputDir != "" {
		paths, err := SaveAll(s.inputDir, files)
		if err != nil {
			log.Warn().Err(err).Str("dir", s.inputDir).Msg("failed to keep drive inputs")
		}
		for input, p := range paths {
			log.Debug().Str("input", input).Str("path", p).Msg("drive input saved")
		}
	}

	if req.Files == nil {
		req.Files = make(map[string][]byte, len(files))
	}
	for input, data := range files {
		req.Files[input] = data
	}

	return s.reports.Generate(ctx, req)
}
