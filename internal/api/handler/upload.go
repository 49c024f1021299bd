package handler

import (
	"io"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/showcase_go_server/internal/api/middleware"
	"github.com/qs3c/showcase_go_server/internal/pkg/oss"
	"github.com/qs3c/showcase_go_server/internal/pkg/response"
)

const maxAttachmentSize = 20 * 1024 * 1024

type UploadHandler struct {
	ossClient *oss.Client
}

func NewUploadHandler(ossClient *oss.Client) *UploadHandler {
	return &UploadHandler{ossClient: ossClient}
}

// UploadAttachment 上传帖子附件，返回可填入帖子 attachments 的访问路径
// POST /api/v1/upload/attachment
func (h *UploadHandler) UploadAttachment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	if h.ossClient == nil {
		response.ServerError(c, "附件存储未配置")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "请选择文件")
		return
	}

	if file.Size > maxAttachmentSize {
		response.ParamError(c, "文件大小不能超过20MB")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.ossClient.UploadAttachment(userID, data, filepath.Ext(file.Filename), contentType)
	if err != nil {
		response.ServerError(c, "上传失败")
		return
	}

	response.SuccessWithMessage(c, "上传成功", gin.H{
		"file_path": url,
		"mime_type": contentType,
	})
}
