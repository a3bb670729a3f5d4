package layout

import (
	"github.com/flanksource/commons/logger"

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/metrics"
	"github.com/ByLCY/docflow/omml"
)

// BuildOptions 配置布局阶段所需的依赖。零值可用：使用默认配置、
// 默认字体度量模型与 omml.Plain 公式转换器。
type BuildOptions struct {
	Config    *config.Config
	Measurer  metrics.Measurer
	Converter omml.Converter
	Logger    logger.Logger
	// BaseDir 为图片相对路径的根目录。
	BaseDir string
	Debug   DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	// OmitLines 清空结果中的 Placement.Lines，以减小调试 JSON。
	OmitLines bool
}

func (o BuildOptions) withDefaults() (BuildOptions, error) {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Measurer == nil {
		m, err := o.Config.Measurer()
		if err != nil {
			return o, err
		}
		o.Measurer = m
	}
	if o.Converter == nil {
		o.Converter = omml.Plain{}
	}
	if o.Logger == nil {
		o.Logger = logger.GetLogger("layout")
	}
	return o, nil
}
