package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ashiknm/dsa-backend/pkg/bookmarks"
	"github.com/ashiknm/dsa-backend/pkg/logger"
	"github.com/ashiknm/dsa-backend/pkg/utils"
)

// writeBookmarkServiceError 把收藏服务的错误类型映射为 HTTP 响应
// 校验失败 → 400，引用未解析 → 404，其余（存储故障等）→ 500
func writeBookmarkServiceError(w http.ResponseWriter, err error) {
	var ve *bookmarks.ValidationError
	if errors.As(err, &ve) {
		utils.WriteValidationErrorResponse(w, ve.Message)
		return
	}

	var nfe *bookmarks.NotFoundError
	if errors.As(err, &nfe) {
		utils.WriteNotFoundResponse(w, nfe.Error())
		return
	}

	logger.L().Error("bookmark operation failed", zap.Error(err))
	utils.WriteInternalServerErrorResponse(w, "Internal server error")
}
