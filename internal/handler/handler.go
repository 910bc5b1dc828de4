package handler

import (
	"net/http"

	"regulariza/internal/service"
	"regulariza/pkg/apperror"
	"regulariza/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// fail maps a service error onto the standard error envelope.
func fail(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	c.JSON(status, response.Error(status, err.Error()))
}

// pathUUID parses one :param as a UUID, answering 400 on garbage ids.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "id inválido: "+c.Param(name)))
		return uuid.Nil, false
	}
	return id, true
}

// formUpload extracts the multipart "file" field as a service upload.
func formUpload(c *gin.Context) (service.FileUpload, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "arquivo ausente no campo 'file'"))
		return service.FileUpload{}, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "falha ao ler o arquivo enviado"))
		return service.FileUpload{}, false
	}
	return service.FileUpload{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     f,
	}, true
}
