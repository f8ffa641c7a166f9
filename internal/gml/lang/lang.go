// Package lang holds the GML keyword and builtin tables shared by the
// indexer (reference resolution) and the rename planner (reserved-word
// collision checks).
package lang

// keywords are the GML reserved words. None of these may appear as a rename
// target.
var keywords = map[string]bool{
	"and": true, "begin": true, "break": true, "case": true, "catch": true,
	"constructor": true, "continue": true, "default": true, "delete": true,
	"div": true, "do": true, "else": true, "end": true, "enum": true,
	"exit": true, "finally": true, "for": true, "function": true,
	"global": true, "globalvar": true, "if": true, "mod": true, "new": true,
	"not": true, "or": true, "repeat": true, "return": true, "self": true,
	"static": true, "switch": true, "then": true, "throw": true, "try": true,
	"until": true, "var": true, "while": true, "with": true, "xor": true,
	"true": true, "false": true, "undefined": true, "noone": true,
	"all": true, "other": true, "pointer_null": true, "pointer_invalid": true,
}

// builtinVariables are the instance and global variables every GML object
// carries. References to these resolve without a project declaration, and a
// rename may not collide with them.
var builtinVariables = map[string]bool{
	"x": true, "y": true, "xprevious": true, "yprevious": true,
	"xstart": true, "ystart": true, "hspeed": true, "vspeed": true,
	"direction": true, "speed": true, "friction": true, "gravity": true,
	"gravity_direction": true, "id": true, "solid": true, "persistent": true,
	"mask_index": true, "instance_count": true, "instance_id": true,
	"alarm": true, "depth": true, "visible": true, "layer": true,
	"sprite_index": true, "sprite_width": true, "sprite_height": true,
	"image_index": true, "image_speed": true, "image_number": true,
	"image_xscale": true, "image_yscale": true, "image_angle": true,
	"image_alpha": true, "image_blend": true, "bbox_left": true,
	"bbox_right": true, "bbox_top": true, "bbox_bottom": true,
	"path_index": true, "path_position": true, "path_speed": true,
	"object_index": true, "room": true, "room_speed": true,
	"room_width": true, "room_height": true, "view_camera": true,
	"event_type": true, "event_number": true, "event_object": true,
	"keyboard_key": true, "mouse_x": true, "mouse_y": true,
	"mouse_button": true, "health": true, "lives": true, "score": true,
	"argument": true, "argument_count": true, "delta_time": true,
	"current_time": true, "fps": true, "fps_real": true,
}

// builtinFunctions is a working set of the GML runtime functions the indexer
// is likely to meet. The table is not exhaustive; unknown call targets are
// reported as unresolved references rather than errors, so gaps degrade
// gracefully.
var builtinFunctions = map[string]bool{
	"abs": true, "array_length": true, "array_push": true, "array_pop": true,
	"array_create": true, "array_resize": true, "array_sort": true,
	"audio_play_sound": true, "audio_stop_sound": true, "audio_stop_all": true,
	"ceil": true, "choose": true, "clamp": true, "collision_point": true,
	"collision_rectangle": true, "cos": true, "darccos": true, "darcsin": true,
	"dcos": true, "degtorad": true, "distance_to_object": true,
	"distance_to_point": true, "draw_rectangle": true, "draw_self": true,
	"draw_set_color": true, "draw_set_font": true, "draw_sprite": true,
	"draw_sprite_ext": true, "draw_text": true, "ds_grid_create": true,
	"ds_grid_get": true, "ds_grid_set": true, "ds_list_add": true,
	"ds_list_create": true, "ds_list_destroy": true, "ds_map_add": true,
	"ds_map_create": true, "ds_map_destroy": true, "ds_map_find_value": true,
	"dsin": true, "exp": true, "floor": true, "frac": true,
	"game_end": true, "game_restart": true, "instance_create_depth": true,
	"instance_create_layer": true, "instance_destroy": true,
	"instance_exists": true, "instance_find": true, "instance_nearest": true,
	"instance_number": true, "irandom": true, "irandom_range": true,
	"is_array": true, "is_real": true, "is_string": true, "is_struct": true,
	"is_undefined": true, "keyboard_check": true, "keyboard_check_pressed": true,
	"keyboard_check_released": true, "lengthdir_x": true, "lengthdir_y": true,
	"lerp": true, "ln": true, "log2": true, "log10": true, "max": true,
	"mean": true, "median": true, "min": true, "motion_add": true,
	"mouse_check_button": true, "mouse_check_button_pressed": true,
	"move_towards_point": true, "place_meeting": true, "point_direction": true,
	"point_distance": true, "point_in_rectangle": true, "power": true,
	"radtodeg": true, "random": true, "random_range": true, "randomise": true,
	"randomize": true, "real": true, "room_goto": true, "room_goto_next": true,
	"room_restart": true, "round": true, "show_debug_message": true,
	"show_message": true, "sign": true, "sin": true, "sqr": true, "sqrt": true,
	"string": true, "string_char_at": true, "string_copy": true,
	"string_format": true, "string_length": true, "string_lower": true,
	"string_pos": true, "string_replace_all": true, "string_upper": true,
	"struct_exists": true, "struct_get": true, "struct_set": true, "tan": true,
	"variable_instance_exists": true, "variable_struct_exists": true,
}

// IsKeyword reports whether name is a GML reserved word.
func IsKeyword(name string) bool {
	return keywords[name]
}

// IsBuiltin reports whether name is a builtin variable or function.
func IsBuiltin(name string) bool {
	return builtinVariables[name] || builtinFunctions[name]
}

// IsReserved reports whether name may never be introduced by a rename.
func IsReserved(name string) bool {
	return IsKeyword(name) || IsBuiltin(name)
}
