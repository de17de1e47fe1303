package mail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pagecraft/pagecraft/internal"
)

type worker struct {
	id         int
	workerPool chan chan EmailJob
	jobChannel chan EmailJob
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan EmailJob, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan EmailJob),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, processFunc func(EmailJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.workerPool <- w.jobChannel

			select {
			case job := <-w.jobChannel:
				w.logger.Debug("worker processing email", "worker_id", w.id, "key_name", job.KeyName)
				processFunc(job)
			case <-ctx.Done():
				w.logger.Debug("email worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

type DispatcherConfig struct {
	MaxWorkers   int
	JobQueueSize int
	MaxRetries   int
	RetryBackoff time.Duration
}

// Dispatcher delivers emails asynchronously through a fixed worker pool.
// Deliveries are retried with exponential backoff; exhausted jobs are logged
// and dropped so email trouble never propagates to request handlers.
type Dispatcher struct {
	repo   RepositoryAPI
	sender Sender
	logger *slog.Logger

	maxRetries   int
	retryBackoff time.Duration

	jobQueue   chan EmailJob
	workerPool chan chan EmailJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewDispatcher(config DispatcherConfig, repo RepositoryAPI, sender Sender, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryBackoff := config.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = 5 * time.Second
	}

	d := &Dispatcher{
		repo:         repo,
		sender:       sender,
		logger:       logger,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
		maxWorkers:   maxWorkers,
		jobQueue:     make(chan EmailJob, jobQueueSize),
		workerPool:   make(chan chan EmailJob, maxWorkers),
		ctx:          ctx,
		cancel:       cancel,
	}

	d.startWorkerPool()

	return d
}

func (d *Dispatcher) startWorkerPool() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			w := newWorker(i, d.workerPool, d.logger)
			w.start(d.ctx, &d.wg, d.process)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("email worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					return
				}
			case <-d.ctx.Done():
				return
			}
		case <-d.ctx.Done():
			return
		}
	}
}

// Send queues a delivery. It never blocks: when the queue is full the job is
// dropped with a warning.
func (d *Dispatcher) Send(keyName, toName, toEmail string, params map[string]string) {
	job := EmailJob{
		KeyName: keyName,
		ToName:  toName,
		ToEmail: toEmail,
		Params:  params,
	}

	select {
	case d.jobQueue <- job:
		d.logger.Debug("email queued", "key_name", keyName, "queue_length", len(d.jobQueue))
	default:
		d.logger.Warn("email queue full, dropping job", "key_name", keyName, "to", toEmail)
	}
}

func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down email dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("email dispatcher shutdown complete")
}

func (d *Dispatcher) process(job EmailJob) {
	tmpl, err := d.repo.GetEmailTemplate(job.KeyName)
	if err != nil {
		if errors.Is(err, internal.ErrEmailTemplateMissing) {
			// a missing template never heals itself, no point retrying
			d.logger.Error("email template missing", "key_name", job.KeyName)
			return
		}
		d.retry(job, err)
		return
	}

	fromEmail, err := d.repo.GetConfigValue(ConfigSenderEmail)
	if err != nil || fromEmail == "" {
		d.logger.Error("sender email not configured", "error", err)
		return
	}
	fromName, _ := d.repo.GetConfigValue(ConfigSenderName)

	subject := RenderMergeTags(tmpl.Title, job.Params)
	body := RenderMergeTags(tmpl.Template, job.Params)

	if err := d.sender.Send(fromName, fromEmail, job.ToName, job.ToEmail, subject, body); err != nil {
		d.retry(job, err)
		return
	}

	d.logger.Info("email sent", "key_name", job.KeyName, "to", job.ToEmail, "attempt", job.attempt+1)
}

// retry requeues the job after an exponential backoff, doubling per attempt.
func (d *Dispatcher) retry(job EmailJob, cause error) {
	if job.attempt >= d.maxRetries {
		d.logger.Error("email delivery failed, retries exhausted",
			"key_name", job.KeyName,
			"to", job.ToEmail,
			"attempts", job.attempt+1,
			"error", cause)
		return
	}

	backoff := d.retryBackoff << job.attempt
	job.attempt++

	d.logger.Warn("email delivery failed, scheduling retry",
		"key_name", job.KeyName,
		"to", job.ToEmail,
		"attempt", job.attempt,
		"backoff", backoff,
		"error", cause)

	d.wg.Add(1)
	timer := time.AfterFunc(backoff, func() {
		defer d.wg.Done()
		select {
		case d.jobQueue <- job:
		case <-d.ctx.Done():
		}
	})

	go func() {
		<-d.ctx.Done()
		if timer.Stop() {
			d.wg.Done()
		}
	}()
}
