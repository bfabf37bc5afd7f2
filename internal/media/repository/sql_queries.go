package repository

const (
	createVideoQuery = `INSERT INTO videos (file_name, stored_path, size_bytes, duration_sec, mime_type)
					VALUES ($1, $2, $3, $4, $5) RETURNING *`

	getVideoByIDQuery = `SELECT video_id, file_name, stored_path, size_bytes, duration_sec, mime_type, uploaded_at
					FROM videos WHERE video_id = $1`

	countVideosQuery = `SELECT COUNT(video_id) FROM videos`

	listVideosQuery = `SELECT video_id, file_name, stored_path, size_bytes, duration_sec, mime_type, uploaded_at
					FROM videos ORDER BY uploaded_at DESC OFFSET $1 LIMIT $2`

	createArtifactQuery = `INSERT INTO artifacts (video_id, kind, quality, source_artifact_id, stored_path,
					size_bytes, duration_sec, config)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING *`

	getArtifactByIDQuery = `SELECT artifact_id, video_id, kind, quality, source_artifact_id, stored_path,
					size_bytes, duration_sec, config, created_at FROM artifacts WHERE artifact_id = $1`

	listArtifactsByVideoQuery = `SELECT artifact_id, video_id, kind, quality, source_artifact_id, stored_path,
					size_bytes, duration_sec, config, created_at FROM artifacts
					WHERE video_id = $1 ORDER BY created_at`
)
