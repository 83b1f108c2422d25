package abi

// Guest exports resolved at instantiation.
const (
	ExportSetup  = "setup"  // called once on the first frame after load or reset
	ExportUpdate = "update" // optional, called every later frame
	ExportDraw   = "draw"   // optional, called every later frame after update
	ExportMemory = "memory"
)

// Graphics imports
const (
	GraphicsSetSize        = "wasm96_graphics_set_size"
	GraphicsSetColor       = "wasm96_graphics_set_color"
	GraphicsBackground     = "wasm96_graphics_background"
	GraphicsPoint          = "wasm96_graphics_point"
	GraphicsLine           = "wasm96_graphics_line"
	GraphicsRect           = "wasm96_graphics_rect"
	GraphicsRectOutline    = "wasm96_graphics_rect_outline"
	GraphicsCircle         = "wasm96_graphics_circle"
	GraphicsCircleOutline  = "wasm96_graphics_circle_outline"
	GraphicsImage          = "wasm96_graphics_image"
	GraphicsTriangle       = "wasm96_graphics_triangle"
	GraphicsTriangleOutln  = "wasm96_graphics_triangle_outline"
	GraphicsBezierQuad     = "wasm96_graphics_bezier_quadratic"
	GraphicsBezierCubic    = "wasm96_graphics_bezier_cubic"
	GraphicsPill           = "wasm96_graphics_pill"
	GraphicsPillOutline    = "wasm96_graphics_pill_outline"
	GraphicsSVGRegister    = "wasm96_graphics_svg_register"
	GraphicsSVGDrawKey     = "wasm96_graphics_svg_draw_key"
	GraphicsSVGUnregister  = "wasm96_graphics_svg_unregister"
	GraphicsGIFRegister    = "wasm96_graphics_gif_register"
	GraphicsGIFDrawKey     = "wasm96_graphics_gif_draw_key"
	GraphicsGIFDrawScaled  = "wasm96_graphics_gif_draw_key_scaled"
	GraphicsGIFUnregister  = "wasm96_graphics_gif_unregister"
	GraphicsPNGRegister    = "wasm96_graphics_png_register"
	GraphicsPNGDrawKey     = "wasm96_graphics_png_draw_key"
	GraphicsPNGDrawScaled  = "wasm96_graphics_png_draw_key_scaled"
	GraphicsPNGUnregister  = "wasm96_graphics_png_unregister"
	GraphicsJPEGRegister   = "wasm96_graphics_jpeg_register"
	GraphicsJPEGDrawKey    = "wasm96_graphics_jpeg_draw_key"
	GraphicsJPEGDrawScaled = "wasm96_graphics_jpeg_draw_key_scaled"
	GraphicsJPEGUnregister = "wasm96_graphics_jpeg_unregister"
	GraphicsFontTTF        = "wasm96_graphics_font_register_ttf"
	GraphicsFontSpleen     = "wasm96_graphics_font_register_spleen"
	GraphicsFontUnregister = "wasm96_graphics_font_unregister"
	GraphicsTextKey        = "wasm96_graphics_text_key"
	GraphicsTextMeasureKey = "wasm96_graphics_text_measure_key"
)

// 3D imports
const (
	GraphicsSet3D             = "wasm96_graphics_set_3d"
	GraphicsCameraLookAt      = "wasm96_graphics_camera_look_at"
	GraphicsCameraPerspective = "wasm96_graphics_camera_perspective"
	GraphicsMeshCreate        = "wasm96_graphics_mesh_create"
	GraphicsMeshCreateOBJ     = "wasm96_graphics_mesh_create_obj"
	GraphicsMeshCreateSTL     = "wasm96_graphics_mesh_create_stl"
	GraphicsMeshSetTexture    = "wasm96_graphics_mesh_set_texture"
	GraphicsMeshDraw          = "wasm96_graphics_mesh_draw"
	GraphicsMTLRegisterTex    = "wasm96_graphics_mtl_register_texture"
)

// Input imports
const (
	InputIsButtonDown = "wasm96_input_is_button_down"
	InputIsKeyDown    = "wasm96_input_is_key_down"
	InputGetMouseX    = "wasm96_input_get_mouse_x"
	InputGetMouseY    = "wasm96_input_get_mouse_y"
	InputIsMouseDown  = "wasm96_input_is_mouse_down"
)

// Audio imports
const (
	AudioInit        = "wasm96_audio_init"
	AudioPushSamples = "wasm96_audio_push_samples"
	AudioPlayWAV     = "wasm96_audio_play_wav"
	AudioPlayQOA     = "wasm96_audio_play_qoa"
	AudioPlayXM      = "wasm96_audio_play_xm"
)

// Storage and system imports
const (
	StorageSave  = "wasm96_storage_save"
	StorageLoad  = "wasm96_storage_load"
	StorageFree  = "wasm96_storage_free"
	SystemLog    = "wasm96_system_log"
	SystemMillis = "wasm96_system_millis"
)
