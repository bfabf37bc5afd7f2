package manager

import (
	"context"
	"sync"
	"time"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/worker"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RestartDiagnostic marks jobs failed by crash recovery, so callers can tell
// "the tool failed" apart from "the server restarted mid-job".
// QueueLostDiagnostic covers jobs that were accepted but still queued when
// the process died; their parameters lived only in that process, so they
// cannot be re-run.
const (
	RestartDiagnostic   = "processing interrupted by server restart"
	QueueLostDiagnostic = "queued job lost by server restart"
)

const (
	genericFaultDiagnostic = "internal processing fault"
	cpuCheckInterval       = 10 * time.Second
)

type queueItem struct {
	job    *models.Job
	params worker.Params
}

// JobManager owns the bounded worker pool. It is constructed and stopped
// explicitly by the process lifecycle, never a package-level singleton. The
// queue hands each job to exactly one worker, so the job row has a single
// writer for its whole run.
type JobManager struct {
	cfg       *config.Config
	log       logger.Logger
	jobRepo   jobs.Repository
	redisRepo jobs.RedisRepository
	execs     *worker.Executors

	queue    chan queueItem
	slots    chan struct{}
	quit     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewJobManager(
	cfg *config.Config,
	jobRepo jobs.Repository,
	redisRepo jobs.RedisRepository,
	execs *worker.Executors,
	log logger.Logger,
) *JobManager {
	return &JobManager{
		cfg:       cfg,
		log:       log,
		jobRepo:   jobRepo,
		redisRepo: redisRepo,
		execs:     execs,
		queue:     make(chan queueItem, cfg.Worker.QueueSize),
		slots:     make(chan struct{}, cfg.Worker.QueueSize),
		quit:      make(chan struct{}),
	}
}

// RecoverInterrupted force-fails jobs left non-terminal by a previous run.
// Neither the in-flight work of a STARTED row nor the queued parameters of a
// PENDING row exist anymore, so every row must still reach a terminal state.
// Called once before Start.
func (m *JobManager) RecoverInterrupted(ctx context.Context) error {
	started, err := m.jobRepo.ListByStatus(ctx, models.JobStatusStarted)
	if err != nil {
		return errors.Wrap(err, "manager.RecoverInterrupted")
	}
	for _, job := range started {
		if err := m.jobRepo.MarkFailure(ctx, job.JobID, RestartDiagnostic); err != nil {
			m.log.Errorf("recovery: failed to fail job %s: %v", job.JobID, err)
			continue
		}
		m.mirrorStatus(ctx, job.JobID, models.JobStatusFailure, job.Progress)
		m.log.Warnf("recovery: job %s marked FAILURE after restart", job.JobID)
	}

	pending, err := m.jobRepo.ListByStatus(ctx, models.JobStatusPending)
	if err != nil {
		return errors.Wrap(err, "manager.RecoverInterrupted")
	}
	for _, job := range pending {
		// walk the row through STARTED so the state machine never skips a step
		if err := m.jobRepo.MarkStarted(ctx, job.JobID); err != nil {
			m.log.Errorf("recovery: failed to start queued job %s: %v", job.JobID, err)
			continue
		}
		if err := m.jobRepo.MarkFailure(ctx, job.JobID, QueueLostDiagnostic); err != nil {
			m.log.Errorf("recovery: failed to fail queued job %s: %v", job.JobID, err)
			continue
		}
		m.mirrorStatus(ctx, job.JobID, models.JobStatusFailure, 0)
		m.log.Warnf("recovery: queued job %s marked FAILURE after restart", job.JobID)
	}

	if n := len(started) + len(pending); n > 0 {
		m.log.Infof("recovery: failed %d interrupted jobs", n)
	}
	return nil
}

func (m *JobManager) Start() {
	m.log.Infof("starting %d workers", m.cfg.Worker.WorkerCount)
	for i := 0; i < m.cfg.Worker.WorkerCount; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}
}

// Stop prevents new dispatch and waits for in-flight jobs to reach a
// terminal state. Queued PENDING items are not drained; they stay PENDING in
// the database until the next startup's recovery sweep fails them.
func (m *JobManager) Stop() {
	m.stopOnce.Do(func() {
		close(m.quit)
	})
	m.wg.Wait()
}

// Submit validates that an executor exists for the operation, reserves a
// queue slot, persists a PENDING job and enqueues it. The slot is taken
// before the row is written, so a full queue is a synchronous error with no
// row left behind, and the enqueue below can never block.
func (m *JobManager) Submit(ctx context.Context, jobType models.JobType, videoID uuid.UUID, inputArtifactID uuid.NullUUID, params worker.Params) (uuid.UUID, error) {
	if _, err := m.executorFor(jobType); err != nil {
		return uuid.Nil, err
	}
	select {
	case m.slots <- struct{}{}:
	default:
		return uuid.Nil, errors.New("job queue full")
	}
	job, err := m.jobRepo.Create(ctx, &models.Job{
		VideoID:         videoID,
		InputArtifactID: inputArtifactID,
		Type:            jobType,
	})
	if err != nil {
		<-m.slots
		return uuid.Nil, errors.Wrap(err, "manager.Submit")
	}
	m.queue <- queueItem{job: job, params: params}
	return job.JobID, nil
}

// executorFor is the closed dispatch over operation kinds; an unknown kind
// is a submission error, never a runtime lookup miss inside a worker.
func (m *JobManager) executorFor(jobType models.JobType) (worker.Executor, error) {
	switch jobType {
	case models.JobTypeTrim:
		return m.execs.Trim, nil
	case models.JobTypeOverlay, models.JobTypeWatermark:
		return m.execs.Overlay, nil
	case models.JobTypeTranscodeMulti:
		return m.execs.Transcode, nil
	default:
		return nil, errors.Errorf("no executor for operation type %q", jobType)
	}
}

func (m *JobManager) worker(id int) {
	defer m.wg.Done()
	for {
		select {
		case <-m.quit:
			return
		case item := <-m.queue:
			<-m.slots
			m.waitForCPU()
			m.runJob(id, item)
		}
	}
}

// waitForCPU defers pickup while the host is already saturated; ffmpeg will
// only make that worse.
func (m *JobManager) waitForCPU() {
	if m.cfg.Worker.MaxCPUUsage <= 0 {
		return
	}
	for {
		ok, usage := utils.CheckCPUUsage(m.cfg.Worker.MaxCPUUsage)
		if ok {
			return
		}
		m.log.Infof("CPU usage %.2f%% too high, delaying job pickup", usage)
		select {
		case <-m.quit:
			return
		case <-time.After(cpuCheckInterval):
		}
	}
}

func (m *JobManager) runJob(workerID int, item queueItem) {
	ctx := context.Background()
	job := item.job
	log := m.log

	exec, err := m.executorFor(job.Type)
	if err != nil {
		// Submit checked this; reaching here is a defect.
		log.Errorf("worker %d: %v", workerID, err)
		m.finalizeFailure(ctx, nil, job, genericFaultDiagnostic)
		return
	}

	if err := m.jobRepo.MarkStarted(ctx, job.JobID); err != nil {
		log.Errorf("worker %d: failed to start job %s: %v", workerID, job.JobID, err)
		return
	}
	m.mirrorStatus(ctx, job.JobID, models.JobStatusStarted, 0)
	log.Infof("worker %d: job %s (%s) started", workerID, job.JobID, job.Type)

	jc := newJobContext(m, job)
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("worker %d: job %s panicked: %v", workerID, job.JobID, r)
			m.finalizeFailure(ctx, jc, job, genericFaultDiagnostic)
		}
	}()

	if err := exec.Execute(ctx, job, item.params, jc); err != nil {
		m.finalizeFailure(ctx, jc, job, diagnosticFor(err))
		log.Errorf("worker %d: job %s failed: %v", workerID, job.JobID, err)
		return
	}
	if !jc.finished() {
		// Executor returned nil without completing; treat as a defect.
		log.Errorf("worker %d: job %s executor returned without terminal call", workerID, job.JobID)
		m.finalizeFailure(ctx, jc, job, genericFaultDiagnostic)
		return
	}
	log.Infof("worker %d: job %s completed", workerID, job.JobID)
}

// diagnosticFor surfaces external tool output verbatim; anything else is a
// code defect and gets the generic diagnostic while the real error goes to
// the log.
func diagnosticFor(err error) string {
	if errors.Is(err, worker.ErrExternalTool) {
		return err.Error()
	}
	return genericFaultDiagnostic
}

func (m *JobManager) finalizeFailure(ctx context.Context, jc *jobContext, job *models.Job, diagnostic string) {
	if jc != nil && jc.finished() {
		return
	}
	if jc != nil {
		jc.markFinished()
	}
	if err := m.jobRepo.MarkFailure(ctx, job.JobID, diagnostic); err != nil {
		m.log.Errorf("failed to finalize job %s: %v", job.JobID, err)
		return
	}
	m.mirrorStatus(ctx, job.JobID, models.JobStatusFailure, 0)
}

func (m *JobManager) mirrorStatus(ctx context.Context, jobID uuid.UUID, status models.JobStatus, progress int) {
	if m.redisRepo == nil {
		return
	}
	if err := m.redisRepo.SetStatus(ctx, jobID.String(), status, progress); err != nil {
		m.log.Warnf("redis status mirror for job %s: %v", jobID, err)
	}
}
