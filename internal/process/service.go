// Package process turns an uploaded spreadsheet into the grouped output
// artifact. It is shared by the CLI and the HTTP API.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/spherical/circuit-extractor/internal/config"
	"github.com/spherical/circuit-extractor/internal/domain"
	"github.com/spherical/circuit-extractor/internal/observability"
	"github.com/spherical/circuit-extractor/internal/pipeline"
	"github.com/spherical/circuit-extractor/internal/sheet"
)

// ErrInputTooLarge is returned when the upload exceeds the configured limit.
var ErrInputTooLarge = errors.New("input exceeds size limit")

// Service runs the extraction pipeline over uploaded spreadsheets.
type Service struct {
	logger *observability.Logger
	config config.ProcessingConfig
}

// Request describes one processing run.
type Request struct {
	Input           io.Reader
	Filename        string
	InstanceKeyword string
	OuterKeyword    string
	// Progress is forwarded to the row enricher.
	Progress pipeline.ProgressFunc
}

// Response is the outcome of a successful run.
type Response struct {
	RunID    uuid.UUID
	Format   sheet.Format
	Artifact *sheet.Artifact // nil for Inspect
	Result   *pipeline.Result
	Report   pipeline.Report

	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
}

// NewService creates a processing service.
func NewService(logger *observability.Logger, cfg config.ProcessingConfig) *Service {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Service{logger: logger, config: cfg}
}

// Config returns the processing settings the service runs with.
func (s *Service) Config() config.ProcessingConfig {
	return s.config
}

// Process decodes the input, runs the pipeline and encodes the output in the
// input's format.
func (s *Service) Process(ctx context.Context, req Request) (*Response, error) {
	resp, err := s.run(ctx, req, "process")
	if err != nil {
		return nil, err
	}

	log := s.logger.WithOperation("process").WithContext(observability.ContextWithRunID(ctx, resp.RunID.String()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := sheet.Encode(resp.Result.Table(), resp.Format, sheet.Options{SheetName: s.config.SheetName})
	if err != nil {
		log.Error().Err(err).Msg("Encode output failed")
		return nil, err
	}
	resp.Artifact = sheet.NewArtifact(s.config.OutputBasename, resp.Format, data)

	s.finish(resp)
	log.Info().
		Str("artifact", resp.Artifact.Name).
		Int("bytes", resp.Artifact.Size()).
		Int("output_rows", resp.Report.OutputRows).
		Int("separators", resp.Report.Separators).
		Dur("duration", resp.Duration).
		Msg("Processing completed")

	return resp, nil
}

// Inspect runs the pipeline without encoding an artifact.
func (s *Service) Inspect(ctx context.Context, req Request) (*Response, error) {
	resp, err := s.run(ctx, req, "inspect")
	if err != nil {
		return nil, err
	}
	s.finish(resp)
	return resp, nil
}

func (s *Service) run(ctx context.Context, req Request, op string) (*Response, error) {
	resp := &Response{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
	}
	ctx = observability.ContextWithRunID(ctx, resp.RunID.String())
	log := s.logger.WithOperation(op).WithContext(ctx)

	log.Info().
		Str("filename", req.Filename).
		Str("instance_keyword", req.InstanceKeyword).
		Str("outer_keyword", req.OuterKeyword).
		Msg("Starting run")

	format := sheet.XLSX
	if req.Filename != "" {
		f, err := sheet.FormatFromFilename(req.Filename)
		if err != nil {
			log.Warn().Err(err).Msg("Rejected input")
			return nil, err
		}
		format = f
	}
	resp.Format = format

	data, err := s.readInput(req.Input)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected input")
		return nil, err
	}
	log.Debug().Int("bytes", len(data)).Msg("Input read")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tbl, err := sheet.Decode(bytes.NewReader(data), format)
	if err != nil {
		log.Warn().Err(err).Msg("Decode input failed")
		return nil, err
	}
	log.Debug().Int("rows", tbl.Len()).Int("columns", len(tbl.Columns)).Msg("Input decoded")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := pipeline.Run(tbl, req.InstanceKeyword, req.OuterKeyword, pipeline.Options{
		DescriptionColumn: s.config.DescriptionColumn,
		Progress:          req.Progress,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Pipeline failed")
		return nil, err
	}
	resp.Result = res
	resp.Report = res.Report

	log.Debug().
		Int("input_rows", res.Report.InputRows).
		Int("subset_a", res.Report.SubsetA).
		Int("subset_b", res.Report.SubsetB).
		Int("subset_c", res.Report.SubsetC).
		Int("unit_groups", res.Report.UnitGroups).
		Int("routing_groups", res.Report.RoutingGroups).
		Msg("Pipeline finished")

	return resp, nil
}

// readInput buffers the whole upload, failing once it grows past the limit.
func (s *Service) readInput(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, domain.InputError("no input", io.ErrUnexpectedEOF)
	}

	limit := s.config.MaxUploadBytes
	if limit <= 0 {
		return readAll(r)
	}

	data, err := readAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, domain.InputError(fmt.Sprintf("limit is %d bytes", limit), ErrInputTooLarge)
	}
	return data, nil
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, domain.IOError("read input", err)
	}
	return data, nil
}

func (s *Service) finish(resp *Response) {
	resp.CompletedAt = time.Now()
	resp.Duration = resp.CompletedAt.Sub(resp.StartedAt)
}
