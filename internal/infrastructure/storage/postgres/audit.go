package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/id"
	"fieldops/internal/domain/inventory"
)

// CompressionAlgo specifies the compression algorithm used for payloads.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry is one stored movement document snapshot.
type AuditEntry struct {
	ID                id.ID           `db:"id"`
	TenantID          id.ID           `db:"tenant_id"`
	DocumentNo        string          `db:"document_no"`
	MovementType      string          `db:"movement_type"`
	UserID            string          `db:"user_id"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// MovementAuditStore persists posted movement documents as JSON
// snapshots. Large documents (bulk stocktakes) are zstd-compressed.
type MovementAuditStore struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// Compile-time check against the engine's recorder contract.
var _ inventory.AuditRecorder = (*MovementAuditStore)(nil)

// NewMovementAuditStore creates a movement audit store.
func NewMovementAuditStore(txManager *TxManager) (*MovementAuditStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &MovementAuditStore{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// RecordMovement stores the document snapshot within the posting transaction.
func (s *MovementAuditStore) RecordMovement(ctx context.Context, doc *inventory.MovementDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	entry := AuditEntry{
		ID:              id.New(),
		DocumentNo:      doc.DocumentNo,
		MovementType:    string(doc.MovementType),
		UserID:          appctx.GetUserID(ctx),
		Payload:         payload,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}
	if tid, err := id.Parse(appctx.GetTenantID(ctx)); err == nil {
		entry.TenantID = tid
	}

	if len(entry.Payload) > s.compressThreshold {
		entry.PayloadCompressed = s.encoder.EncodeAll(entry.Payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_audit (
			id, tenant_id, document_no, movement_type, user_id,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		entry.ID, entry.TenantID, entry.DocumentNo, entry.MovementType,
		entry.UserID, entry.Payload, entry.PayloadCompressed,
		entry.CompressionAlgo, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// GetHistory retrieves stored snapshots for one document number.
func (s *MovementAuditStore) GetHistory(ctx context.Context, documentNo string, limit int) ([]AuditEntry, error) {
	sql := `
		SELECT id, tenant_id, document_no, movement_type, user_id,
			   payload, payload_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE tenant_id = $1 AND document_no = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	tenant, _ := id.Parse(appctx.GetTenantID(ctx))
	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, tenant, documentNo, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		err := rows.Scan(
			&e.ID, &e.TenantID, &e.DocumentNo, &e.MovementType, &e.UserID,
			&e.Payload, &e.PayloadCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
