package job

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/availability"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/report"
)

// process runs the pipeline for one request and records the outcome
func (r *Runner) process(ctx context.Context, req Request, h *handle) {
	run := &models.Run{
		StartedAt:  r.now(),
		Server:     r.server,
		Group:      req.Group,
		PeriodDays: req.Days,
	}

	res := r.generate(ctx, req)

	run.FinishedAt = r.now()
	run.OutputPath = res.Output
	switch {
	case res.Err != nil:
		run.Status = models.RunFailed
		run.ErrorMessage = errors.Summary(res.Err)
		r.emit(logrus.ErrorLevel, "ERROR: %s", run.ErrorMessage)
	case res.Cancelled:
		run.Status = models.RunCancelled
	default:
		run.Status = models.RunSucceeded
	}
	if res.Report != nil {
		run.HostCount = len(res.Report.Hosts)
		if run.Status == models.RunSucceeded {
			run.Hosts = res.Report.Hosts
		}
	}

	res.RunID = r.record(run)
	r.finish(res, h)
}

func (r *Runner) generate(ctx context.Context, req Request) Result {
	var res Result

	if r.server != "" {
		r.info("Connecting to Zabbix at %s...", r.server)
	} else {
		r.info("Connecting to Zabbix...")
	}

	rep, err := r.collector.Collect(ctx, req.Group, req.Days)
	if err != nil {
		res.Err = collectError(err)
		return res
	}
	res.Report = rep
	r.info("Data for %d hosts found.", len(rep.Hosts))

	if rep.Empty() {
		res.Err = errors.New(errors.ErrData, "no data found for the given criteria",
			"Check the hosts of the group have an ICMP ping item with trend data")
		return res
	}

	out, err := r.outputPath(req)
	if err != nil {
		res.Err = errors.WrapWithCode(err, errors.ErrRender, "Could not choose an output file", "")
		return res
	}
	if out == "" {
		res.Cancelled = true
		r.warn("Save cancelled.")
		return res
	}

	if err := ctx.Err(); err != nil {
		res.Err = collectError(err)
		return res
	}

	r.info("Generating PDF report...")
	if err := renderFile(out, r.renderer, rep); err != nil {
		res.Err = errors.WrapWithCode(err, errors.ErrRender, "Failed to write the PDF report",
			"Check the output directory exists and is writable")
		return res
	}
	res.Output = out

	if r.summary != nil {
		path := SummaryPath(out)
		if err := renderFile(path, r.summary, rep); err != nil {
			r.warn("Could not write summary: %v", err)
		} else {
			res.SummaryPath = path
		}
	}

	r.info("Report saved successfully to %s", out)
	return res
}

func (r *Runner) outputPath(req Request) (string, error) {
	if req.ChooseOutput != nil {
		path, err := req.ChooseOutput(report.DefaultFilename(req.Group))
		return strings.TrimSpace(path), err
	}
	return strings.TrimSpace(req.Output), nil
}

// record saves the run to history when configured and returns its id
func (r *Runner) record(run *models.Run) int64 {
	if r.history == nil {
		return 0
	}

	id, err := r.history.SaveRun(run)
	if err != nil {
		r.warn("Could not record run in history: %v", err)
		return 0
	}

	if r.retention > 0 {
		pruned, err := r.history.PruneRuns(r.retention)
		if err != nil {
			r.logger.Warnf("Failed to prune history: %v", err)
		} else if pruned > 0 {
			r.logger.Debugf("Pruned %d old runs", pruned)
		}
	}
	return id
}

// collectError attaches a code and suggestion to a collector failure
func collectError(err error) error {
	var notFound *availability.GroupNotFoundError
	if stderrors.As(err, &notFound) {
		return errors.WrapWithCode(err, errors.ErrData, "Host group not found",
			"Check the exact host group name in Zabbix (it is case sensitive)")
	}
	if stderrors.Is(err, context.Canceled) {
		return errors.WrapWithCode(err, errors.ErrAPI, "Report generation was interrupted", "")
	}
	return errors.WrapWithCode(err, errors.ErrAPI, "Failed to fetch data from Zabbix",
		"Check the server URL, credentials, and that the API is reachable")
}

// renderFile renders rep into path, removing the file on failure
func renderFile(path string, renderer models.Renderer, rep *models.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := renderer.Render(f, rep); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// SummaryPath returns the text summary path for a PDF path
func SummaryPath(pdfPath string) string {
	ext := filepath.Ext(pdfPath)
	return strings.TrimSuffix(pdfPath, ext) + "_summary.txt"
}
