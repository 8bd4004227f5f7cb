package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
	colorTime  = "\x1b[38;5;108m" // muted green timestamp
	colorName  = "\x1b[38;5;109m" // soft blue component name
	colorID    = "\x1b[38;5;208m" // warm orange for ids (pid, correlation, trid)
	colorWarn  = "\x1b[38;5;214m"
	colorErr   = "\x1b[38;5;167m"
)

// minimalEncoder is a calm, compact console encoder for foreground runs.
// Format: "13:04:35  domain  booted group=boot.core"
type minimalEncoder struct {
	zapcore.Encoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	final.AppendString(colorTime)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorName)
		final.AppendString(ent.LoggerName)
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	if len(fields) > 0 {
		final.AppendString("  ")
		final.AppendString(extractFieldValues(fields))
	}

	final.AppendString("\n")
	return final, nil
}

func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + colorWarn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + colorErr + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + colorErr + level.CapitalString() + colorReset
	default:
		return ""
	}
}

func fieldValue(f zapcore.Field) string {
	switch f.Type {
	case zapcore.StringType:
		return f.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", f.Integer)
	case zapcore.DurationType:
		return time_Duration(f.Integer)
	default:
		if f.Interface != nil {
			return fmt.Sprintf("%v", f.Interface)
		}
		return ""
	}
}

func time_Duration(ns int64) string {
	return fmt.Sprintf("%dms", ns/1_000_000)
}

// extractFieldValues renders key=value pairs, highlighting identifiers that
// matter most when skimming a running domain: pid, trid, correlation.
func extractFieldValues(fields []zapcore.Field) string {
	var parts []string
	for _, f := range fields {
		v := fieldValue(f)
		if v == "" {
			continue
		}
		switch f.Key {
		case "pid", "trid", "correlation", "identity":
			parts = append(parts, f.Key+"="+colorID+v+colorReset)
		default:
			parts = append(parts, f.Key+"="+v)
		}
	}
	return strings.Join(parts, " ")
}
