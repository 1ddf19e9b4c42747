package capabilities

import (
	"context"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// InputModule exposes an Input backend as the "input" global.
func InputModule(in Input) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: NameInput,
		Members: starlark.StringDict{
			"key_press": blocking(NameInput, "key_press", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				var key string
				if err := starlark.UnpackArgs(b.Name(), args, kwargs, "key", &key); err != nil {
					return nil, err
				}
				return starlark.None, in.KeyPress(ctx, key)
			}),
			"type_text": blocking(NameInput, "type_text", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				var text string
				if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
					return nil, err
				}
				return starlark.None, in.TypeText(ctx, text)
			}),
			"mouse_move": blocking(NameInput, "mouse_move", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				var x, y int
				if err := starlark.UnpackArgs(b.Name(), args, kwargs, "x", &x, "y", &y); err != nil {
					return nil, err
				}
				return starlark.None, in.MouseMove(ctx, x, y)
			}),
			"click": blocking(NameInput, "click", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				button := "left"
				if err := starlark.UnpackArgs(b.Name(), args, kwargs, "button?", &button); err != nil {
					return nil, err
				}
				return starlark.None, in.Click(ctx, button)
			}),
		},
	}
}

// ScreenModule exposes a Screen backend as the "screen" global.
func ScreenModule(sc Screen) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: NameScreen,
		Members: starlark.StringDict{
			"size": blocking(NameScreen, "size", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
					return nil, err
				}
				w, h, err := sc.Size(ctx)
				if err != nil {
					return nil, err
				}
				return starlark.Tuple{starlark.MakeInt(w), starlark.MakeInt(h)}, nil
			}),
			"capture": blocking(NameScreen, "capture", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				var path string
				if err := starlark.UnpackArgs(b.Name(), args, kwargs, "path", &path); err != nil {
					return nil, err
				}
				return starlark.None, sc.Capture(ctx, path)
			}),
		},
	}
}

// AudioModule exposes an Audio backend as the "audio" global.
func AudioModule(au Audio) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: NameAudio,
		Members: starlark.StringDict{
			"play": blocking(NameAudio, "play", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				var path string
				if err := starlark.UnpackArgs(b.Name(), args, kwargs, "path", &path); err != nil {
					return nil, err
				}
				return starlark.None, au.Play(ctx, path)
			}),
			"set_volume": blocking(NameAudio, "set_volume", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				var volume starlark.Value
				if err := starlark.UnpackArgs(b.Name(), args, kwargs, "volume", &volume); err != nil {
					return nil, err
				}
				f, ok := starlark.AsFloat(volume)
				if !ok {
					return nil, errNotNumber(b, volume)
				}
				return starlark.None, au.SetVolume(ctx, f)
			}),
		},
	}
}

// WebDriverModule exposes a WebDriver backend as the "webdriver" global.
func WebDriverModule(wd WebDriver) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: NameWebDriver,
		Members: starlark.StringDict{
			"navigate": blocking(NameWebDriver, "navigate", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				var url string
				if err := starlark.UnpackArgs(b.Name(), args, kwargs, "url", &url); err != nil {
					return nil, err
				}
				return starlark.None, wd.Navigate(ctx, url)
			}),
			"current_url": blocking(NameWebDriver, "current_url", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
					return nil, err
				}
				url, err := wd.CurrentURL(ctx)
				if err != nil {
					return nil, err
				}
				return starlark.String(url), nil
			}),
			"close": blocking(NameWebDriver, "close", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
					return nil, err
				}
				return starlark.None, wd.Close(ctx)
			}),
		},
	}
}

// InterfaceModule exposes an Interface backend as the "interface" global.
func InterfaceModule(ui Interface) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: NameInterface,
		Members: starlark.StringDict{
			"notify": blocking(NameInterface, "notify", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				var title, message string
				if err := starlark.UnpackArgs(b.Name(), args, kwargs, "title", &title, "message", &message); err != nil {
					return nil, err
				}
				return starlark.None, ui.Notify(ctx, title, message)
			}),
			"set_status": blocking(NameInterface, "set_status", func(ctx context.Context, _ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				var text string
				if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
					return nil, err
				}
				return starlark.None, ui.SetStatus(ctx, text)
			}),
		},
	}
}
