// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_pmxmerge/pkg/shared/base/logging"

// logMergeInfo はマージのINFOログを出力し、マージ冗長ログにも転送する。
func logMergeInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
	if logger.IsVerboseEnabled(logging.VERBOSE_INDEX_MERGE) {
		logger.Verbose(logging.VERBOSE_INDEX_MERGE, "[INFO] "+format, params...)
	}
}

// logMergeDebug はマージのDEBUGログを出力する。
func logMergeDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
	if logger.IsVerboseEnabled(logging.VERBOSE_INDEX_MERGE) {
		logger.Verbose(logging.VERBOSE_INDEX_MERGE, "[DEBUG] "+format, params...)
	}
}

func logMergeWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}

// logMergeVerbose は再割当の追跡ログを出力する。
func logMergeVerbose(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil || !logger.IsVerboseEnabled(logging.VERBOSE_INDEX_MERGE) {
		return
	}
	logger.Verbose(logging.VERBOSE_INDEX_MERGE, format, params...)
}
