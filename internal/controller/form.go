package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"storefront_api/internal/service"
)

// formSpec multipart 表单字段的解码方式，未列出的字段按普通字符串处理
type formSpec struct {
	JSON  []string // 值为 JSON 字符串，如 options
	List  []string // 可重复出现的字符串，如 uploaded_images
	Bools []string
}

func (s formSpec) kind(key string) string {
	for _, k := range s.JSON {
		if k == key {
			return "json"
		}
	}
	for _, k := range s.List {
		if k == key {
			return "list"
		}
	}
	for _, k := range s.Bools {
		if k == key {
			return "bool"
		}
	}
	return "string"
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// decodeForm 将 multipart 表单转换为 JSON 对象再解码到 out，然后执行 binding 校验
// 这样 JSON 与表单请求共用同一个 DTO 和同一套校验规则
func decodeForm(form *multipart.Form, spec formSpec, out interface{}) error {
	obj := make(map[string]interface{}, len(form.Value))
	for key, values := range form.Value {
		if len(values) == 0 {
			continue
		}
		switch spec.kind(key) {
		case "json":
			raw, err := joinJSON(values)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			obj[key] = raw
		case "list":
			obj[key] = values
		case "bool":
			b, err := strconv.ParseBool(values[0])
			if err != nil {
				return fmt.Errorf("%s: 无效的布尔值", key)
			}
			obj[key] = b
		default:
			obj[key] = values[0]
		}
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(out)
}

// joinJSON 多个值或单个非数组值都包装为数组元素；单个值本身为 JSON 数组时原样使用
func joinJSON(values []string) (json.RawMessage, error) {
	for _, v := range values {
		if !json.Valid([]byte(v)) {
			return nil, fmt.Errorf("无效的 JSON")
		}
	}
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		return json.RawMessage(values[0]), nil
	}
	return json.RawMessage("[" + strings.Join(values, ",") + "]"), nil
}

// readFiles 读取表单中 key 对应的全部文件
func readFiles(form *multipart.Form, key string) ([]service.ImageFile, error) {
	headers := form.File[key]
	files := make([]service.ImageFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, nil
}

// readFirstFile key 不存在时返回 nil
func readFirstFile(form *multipart.Form, key string) (*service.ImageFile, error) {
	headers := form.File[key]
	if len(headers) == 0 {
		return nil, nil
	}
	return readFile(headers[0])
}

func readFile(fh *multipart.FileHeader) (*service.ImageFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.ImageFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
