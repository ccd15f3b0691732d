package errors

// Convenience functions for common error patterns

// Config errors

func ConfigInvalid(path string, cause error) *WorkspaceError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *WorkspaceError {
	return New(CategoryValidation, SeverityFatal, "validation failed: "+field+": "+reason).
		WithContext("field", field).
		WithContext("reason", reason)
}

// Workspace errors

func WorkspaceNotFound(description string, cause error) *WorkspaceError {
	return Wrap(cause, CategoryWorkspace, SeverityFatal, "could not find "+description+" root folder").
		WithContext("marker", description)
}

func FileSystemError(operation string, cause error) *WorkspaceError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}

// Graph errors

func GraphGenerationFailed(pkg string, cause error) *WorkspaceError {
	return Wrap(cause, CategoryGraph, SeverityFatal, "failed to generate dependency graph").
		WithContext("package", pkg)
}

func UnknownRecipe(recipe string) *WorkspaceError {
	return New(CategoryValidation, SeverityFatal, "no such recipe: '"+recipe+"'").
		WithContext("recipe", recipe)
}

// Build errors

func BuildFailed(pkg string, cause error) *WorkspaceError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed for package "+pkg).
		WithContext("package", pkg)
}

func SchedulingFailed(cause error) *WorkspaceError {
	return Wrap(cause, CategoryInternal, SeverityFatal, "a fatal error occurred during the build")
}

func Interrupted(cause error) *WorkspaceError {
	return Wrap(cause, CategoryRuntime, SeverityFatal, "interrupted")
}
