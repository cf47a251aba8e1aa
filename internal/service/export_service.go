package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"quizhub_backend/internal/config"
	"quizhub_backend/pkg/logger"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type ExportService struct {
	QuizSvc  *QuizService
	Cfg      *config.Config
	archiver *minio.Client
}

func NewExportService(quizSvc *QuizService, cfg *config.Config) *ExportService {
	s := &ExportService{QuizSvc: quizSvc, Cfg: cfg}

	if cfg.Export.ArchiveEnabled {
		client, err := minio.New(cfg.Export.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Export.MinioAccessID, cfg.Export.MinioSecret, ""),
			Secure: cfg.Export.MinioUseSSL,
		})
		if err != nil {
			logger.Log.Error("Failed to initialize export archiver", zap.Error(err))
		} else {
			s.archiver = client
		}
	}

	return s
}

// ExportAttemptsCSV 导出某测验的全部答卷。分数只在导出时格式化，
// 存储中的百分比保持未舍入
func (s *ExportService) ExportAttemptsCSV(ownerID, quizID uint) (string, []byte, error) {
	detail, err := s.QuizSvc.GetQuizForAdmin(ownerID, quizID)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"username", "email", "score", "passed", "attempted_at"}); err != nil {
		return "", nil, err
	}
	for _, row := range detail.Attempts {
		record := []string{
			row.Username,
			row.Email,
			strconv.FormatFloat(row.Score, 'f', 2, 64),
			strconv.FormatBool(row.Passed),
			row.AttemptedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("quiz_%d_attempts_%s.csv", quizID, time.Now().Format("20060102150405"))
	data := buf.Bytes()

	s.archive(filename, data)

	return filename, data, nil
}

// archive 把导出文件另存一份到对象存储，失败只记日志不影响下载
func (s *ExportService) archive(filename string, data []byte) {
	if s.archiver == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.archiver.PutObject(ctx, s.Cfg.Export.MinioBucket, "exports/"+filename,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		logger.Log.Error("Failed to archive export", zap.String("file", filename), zap.Error(err))
	}
}
