package hostfuncs

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ModuleName is the import namespace guests use for the preopen host calls.
const ModuleName = "pathbox_host"

// Register instantiates the host module exposing the preopen file calls.
// It returns the FSHost so the caller can inspect descriptor state after the
// guest finishes.
func Register(ctx context.Context, runtime wazero.Runtime, opener Opener) (*FSHost, error) {
	host := NewFSHost(opener)
	builder := runtime.NewHostModuleBuilder(ModuleName)

	// open(namePtr i32, nameLen i32, mode i32) -> fd i32
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(host.Open),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI32}).
		Export("open")

	// read(fd i32, bufPtr i32, bufLen i32) -> n i32
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(host.Read),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI32}).
		Export("read")

	// write(fd i32, bufPtr i32, bufLen i32) -> n i32
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(host.Write),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI32}).
		Export("write")

	// close(fd i32) -> status i32
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(host.Close),
			[]api.ValueType{api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI32}).
		Export("close")

	if _, err := builder.Instantiate(ctx); err != nil {
		return nil, err
	}
	return host, nil
}
