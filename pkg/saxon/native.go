package saxon

// nativeAPI is the SaxonC symbol table. Fields are exported so ffi.BindTable
// can assign them. Nullable C strings are *byte so nil is passed as NULL.
type nativeAPI struct {
	CreateIsolate         func(params uintptr, isolate, thread *uintptr) int32                                                  `symbol:"graal_create_isolate"`
	CreateSaxonProcessor  func(thread uintptr, license int32) uintptr                                                           `symbol:"createSaxonProcessor"`
	GC                    func(thread uintptr)                                                                                  `symbol:"j_gc"`
	CreateXslt30Processor func(thread uintptr) uintptr                                                                          `symbol:"createXslt30Processor"`
	CompileFromFile       func(thread, proc uintptr, stylesheet string, baseURI *byte, closeAfterUse int32) uintptr             `symbol:"j_compileFromFile"`
	TransformToFile       func(thread uintptr, output *byte, executable uintptr, source string, baseURI, options *byte) uintptr `symbol:"j_transformToFile"`
	TransformToValue      func(thread, executable uintptr, source string, baseURI *byte) uintptr                                `symbol:"j_transformToValue"`
	GetErrorMessage       func(thread uintptr) uintptr                                                                          `symbol:"j_getErrorMessage"`
}
