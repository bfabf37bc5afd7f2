package repository

const (
	createJobQuery = `INSERT INTO jobs (video_id, input_artifact_id, job_type, status, progress)
					VALUES ($1, $2, $3, $4, 0) RETURNING *`

	getJobByIDQuery = `SELECT job_id, video_id, input_artifact_id, output_artifact_id, job_type, status, progress,
					error_message, created_at, updated_at FROM jobs WHERE job_id = $1`

	listJobsByStatusQuery = `SELECT job_id, video_id, input_artifact_id, output_artifact_id, job_type, status, progress,
					error_message, created_at, updated_at FROM jobs WHERE status = $1 ORDER BY created_at`

	markStartedQuery = `UPDATE jobs SET status = 'STARTED', progress = 0, updated_at = now()
					WHERE job_id = $1 AND status = 'PENDING'`

	updateProgressQuery = `UPDATE jobs SET progress = GREATEST(progress, $2), updated_at = now()
					WHERE job_id = $1 AND status = 'STARTED'`

	markSuccessQuery = `UPDATE jobs SET status = 'SUCCESS', progress = 100, output_artifact_id = $2, updated_at = now()
					WHERE job_id = $1 AND status = 'STARTED'`

	markFailureQuery = `UPDATE jobs SET status = 'FAILURE', error_message = $2, updated_at = now()
					WHERE job_id = $1 AND status = 'STARTED'`
)
