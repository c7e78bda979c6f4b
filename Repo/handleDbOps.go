package Repo

import (
	"context"
	"fmt"
	"os"
	"strings"

	"slack-convo-mimic/Models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ArchiveRecord = Models.ArchiveRecord

func InitDbPool(dbPool **pgxpool.Pool) error {
	databaseUrl := os.Getenv("DATABASE_URL")
	var dbConnectionError error
	*dbPool, dbConnectionError = pgxpool.New(context.Background(), databaseUrl)
	if dbConnectionError != nil {
		return dbConnectionError
	}
	return nil
}

// SaveResponse writes one prompt/response pair. Rows are write-once:
// never updated, never read back by this service.
func SaveResponse(ctx context.Context, record ArchiveRecord, dbPool *pgxpool.Pool) error {

	if dbPool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	query := `
		INSERT INTO responses (id, prompt, response)
		VALUES ($1, $2, $3)`

	// Execute using the shared pool
	_, saveResponseError := dbPool.Exec(ctx, query, record.Id, record.Prompt, record.Response)
	if saveResponseError != nil {
		return saveResponseError
	}

	return nil
}

// SaveChannelMembers stores the latest member list for a channel as a
// comma-separated string, replacing any earlier snapshot.
func SaveChannelMembers(ctx context.Context, channelId string, userIds []string, dbPool *pgxpool.Pool) error {

	if dbPool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	query := `
		INSERT INTO channel_members (channel_id, user_ids)
		VALUES ($1, $2)
		ON CONFLICT (channel_id) DO UPDATE SET user_ids = EXCLUDED.user_ids`

	_, saveMembersError := dbPool.Exec(ctx, query, channelId, strings.Join(userIds, ","))
	if saveMembersError != nil {
		return saveMembersError
	}

	return nil
}

// ResponseStore adapts the shared pool to the archiver interface the
// prompt generator wants injected.
type ResponseStore struct {
	DbPool *pgxpool.Pool
}

func (s ResponseStore) SaveResponse(ctx context.Context, record ArchiveRecord) error {
	return SaveResponse(ctx, record, s.DbPool)
}
