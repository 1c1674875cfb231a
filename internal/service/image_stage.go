package service

import (
	"context"

	"go.uber.org/zap"
)

// ImageFile 表单上传的图片文件
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// imageStage 记录本次请求新写入存储的文件
// 事务失败时 discard 删除它们，数据库中不会留下引用
type imageStage struct {
	storage  *StorageService
	logger   *zap.Logger
	prefix   string
	uploaded []string
}

func newImageStage(storage *StorageService, logger *zap.Logger, prefix string) *imageStage {
	return &imageStage{storage: storage, logger: logger, prefix: prefix}
}

func (st *imageStage) uploadFile(ctx context.Context, f ImageFile) (string, error) {
	url, err := st.storage.Upload(ctx, f.Data, f.Filename, f.ContentType)
	if err != nil {
		return "", err
	}
	st.uploaded = append(st.uploaded, url)
	return url, nil
}

func (st *imageStage) uploadDataURL(ctx context.Context, dataURL string) (string, error) {
	url, err := st.storage.UploadDataURL(ctx, dataURL, st.prefix)
	if err != nil {
		return "", NewValidationError("image", err.Error())
	}
	st.uploaded = append(st.uploaded, url)
	return url, nil
}

func (st *imageStage) importURL(ctx context.Context, source string) (string, error) {
	url, err := st.storage.UploadFromURL(ctx, source)
	if err != nil {
		return "", err
	}
	st.uploaded = append(st.uploaded, url)
	return url, nil
}

// resolve 将图片引用转换为最终地址列表
//   - 与已有图片文件名相同：保留已有地址
//   - data URL / 表单文件：上传为新图片
//   - 未匹配的 http(s) 地址：下载后转存
//   - 其它：丢弃并记录警告
func (st *imageStage) resolve(ctx context.Context, refs []string, files []ImageFile, existing []string) ([]string, error) {
	byName := make(map[string]string, len(existing))
	for _, u := range existing {
		byName[FileName(u)] = u
	}

	urls := make([]string, 0, len(refs)+len(files))
	seen := make(map[string]struct{})
	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for _, ref := range refs {
		switch {
		case ref == "":
			continue
		case IsDataURL(ref):
			u, err := st.uploadDataURL(ctx, ref)
			if err != nil {
				return nil, err
			}
			add(u)
		case byName[FileName(ref)] != "":
			add(byName[FileName(ref)])
		case IsRemoteURL(ref):
			u, err := st.importURL(ctx, ref)
			if err != nil {
				return nil, NewValidationError("uploaded_images", "图片下载失败: "+ref)
			}
			add(u)
		default:
			st.logger.Warn("丢弃无法识别的图片引用", zap.String("ref", ref))
		}
	}

	for _, f := range files {
		u, err := st.uploadFile(ctx, f)
		if err != nil {
			return nil, err
		}
		add(u)
	}
	return urls, nil
}

// discard 删除本次上传的文件
func (st *imageStage) discard(ctx context.Context) {
	removeFiles(ctx, st.storage, st.logger, st.uploaded)
	st.uploaded = nil
}

// removeFiles 尽力删除存储中的文件，失败只记录日志
func removeFiles(ctx context.Context, storage *StorageService, logger *zap.Logger, urls []string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := storage.Delete(ctx, u); err != nil {
			logger.Warn("删除存储文件失败", zap.String("url", u), zap.Error(err))
		}
	}
}

// unreferenced 返回 before 中不再出现在 after 里的地址
func unreferenced(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, u := range after {
		keep[u] = struct{}{}
	}
	var out []string
	for _, u := range before {
		if _, ok := keep[u]; !ok {
			out = append(out, u)
		}
	}
	return out
}
