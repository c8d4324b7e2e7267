package main

// Message constants
const (
	MsgRootShort = "Sync Minecraft instance files across installations"
	MsgRootLong  = `enderlink keeps assets shared between Minecraft instances in one place.

Files live in shulker boxes inside an EnderChest folder; enderlink links
each box into every instance it matches, so a resource pack, mod, or
config edited once shows up everywhere.`

	MsgPlaceShort = "Link shulker boxes into matching instances"
	MsgPlaceLong  = `Place scans the EnderChest for shulker boxes, matches each box
against the registered instances, and creates symlinks inside every
matching instance pointing back into the box.

Boxes are applied in ascending (priority, name) order, so a later box
takes over any file an earlier box also provides.`

	MsgBreakShort = "Dissolve the EnderChest, leaving instances self-contained"
	MsgBreakLong  = `Break walks every registered instance and undoes enderlink's work:
links into the EnderChest are replaced with real copies of their
content, and links that merely pass through the chest are re-pointed
at their final destination. Files enderlink never touched are left
alone.`

	MsgCraftShort = "Create a new shulker box"

	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"

	MsgBreakConfirm = "Break the EnderChest? Instances will keep copies of everything currently linked."
	MsgBreakAborted = "Nothing broken."
)
