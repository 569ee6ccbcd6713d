package report

// Finding codes, one per check. These are the stable tags ignore rules and
// the session-level suppression lists match against.
const (
	// Config records.
	CodeIncorrectGamePath                 = "IncorrectGamePath"
	CodeDependenciesCacheNotGenerated     = "DependenciesCacheNotGenerated"
	CodeDependenciesCacheOutdated         = "DependenciesCacheOutdated"
	CodeDependenciesCacheCouldNotBeLoaded = "DependenciesCacheCouldNotBeLoaded"

	// Dependency-manager records.
	CodeInvalidDependencyPackName = "InvalidDependencyPackName"

	// Pack records.
	CodeInvalidPackName = "InvalidPackName"

	// DB table records.
	CodeOutdatedTable                       = "OutdatedTable"
	CodeBannedTable                         = "BannedTable"
	CodeTableNameEndsInNumber               = "TableNameEndsInNumber"
	CodeTableNameHasSpace                   = "TableNameHasSpace"
	CodeTableIsDataCoring                   = "TableIsDataCoring"
	CodeFieldWithPathNotFound               = "FieldWithPathNotFound"
	CodeInvalidReference                    = "InvalidReference"
	CodeNoReferenceTableFound               = "NoReferenceTableFound"
	CodeNoReferenceTableNorColumnFoundPak   = "NoReferenceTableNorColumnFoundPak"
	CodeNoReferenceTableNorColumnFoundNoPak = "NoReferenceTableNorColumnFoundNoPak"
	CodeEmptyRow                            = "EmptyRow"
	CodeEmptyKeyField                       = "EmptyKeyField"
	CodeEmptyKeyFields                      = "EmptyKeyFields"
	CodeValueCannotBeEmpty                  = "ValueCannotBeEmpty"
	CodeDuplicatedCombinedKeys              = "DuplicatedCombinedKeys"
	CodeMissingLocKey                       = "MissingLocKey"

	// Loc records.
	CodeInvalidLocKey = "InvalidLocKey"
	CodeInvalidEscape = "InvalidEscape"
	CodeDuplicatedRow = "DuplicatedRow"

	// Text records.
	CodeInvalidKey = "InvalidKey"

	// Anim fragment records.
	CodeLocomotionGraphPathNotFound = "LocomotionGraphPathNotFound"
	CodeFilePathNotFound            = "FilePathNotFound"
	CodeMetaFilePathNotFound        = "MetaFilePathNotFound"
	CodeSndFilePathNotFound         = "SndFilePathNotFound"

	// Portrait-settings records.
	CodeDatacoredPortraitSettings     = "DatacoredPortraitSettings"
	CodeInvalidArtSetID               = "InvalidArtSetId"
	CodeInvalidVariantFilename        = "InvalidVariantFilename"
	CodeFileDiffuseNotFoundForVariant = "FileDiffuseNotFoundForVariant"
)
