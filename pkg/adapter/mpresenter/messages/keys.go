// 指示: miu200521358
// Package messages はCLI表示に使うメッセージを提供する。
package messages

// 表示メッセージ一覧。
const (
	AppName = "mu_pmxmerge"

	HelpUsageShort = "PMXモデルにパッチPMXをマージします"
	HelpUsageLong  = "ベースPMXへパッチPMXを名前で突き合わせてマージし、PMXとして保存します。\n" +
		"追加/更新ポリシーは --append と --update、または設定ファイルで指定します。"

	FlagBase         = "ベースPMXファイルパス"
	FlagPatch        = "パッチPMXファイルパス"
	FlagOut          = "出力PMXファイルパス (未指定時はベースを上書き、相対パスはベースのディレクトリ基準)"
	FlagConfig       = "設定ファイル(JSON)パス"
	FlagAppend       = "追加ポリシー (MORPH, PHYSICS, DISPLAY)"
	FlagUpdate       = "更新ポリシー (BONE, BONE_LOCATION, BONE_SETTING, MAT_SETTING, MAT_MESH, MORPH, PHYSICS, DISPLAY)"
	FlagReport       = "マージレポート(JSON)の出力先"
	FlagDryRun       = "マージのみ行い保存しない"
	FlagValidateOnly = "入力の検証のみ行う"
	FlagLogLevel     = "ログレベル (verbose, debug, info, warn, error)"
	FlagVerbose      = "再割当の追跡ログを出力する"
	FlagTextEncoding = "保存時のテキストエンコード (utf8, utf16)"

	MessageBaseRequired  = "ベースPMXファイルを指定してください (--base)"
	MessagePatchRequired = "パッチPMXファイルを指定してください (--patch)"

	LogLoadStart       = "読み込み開始: base=%s patch=%s"
	LogValidateSuccess = "検証成功: %s"
	LogMergeSuccess    = "マージ完了: %s"
	LogDryRunSuccess   = "確認実行完了 (保存なし): %s"
	LogReportSaved     = "レポート保存: %s"
	LogCategorySummary = "%s: kept=%d updated=%d appended=%d skipped=%d total=%d"
	LogWarningSummary  = "警告: %d件"
	LogPruneSummary    = "未使用頂点削除: vertices=%d offsets=%d"
)
