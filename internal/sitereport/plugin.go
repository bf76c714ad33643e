package sitereport

import "path"

// NoDirectorySlug is the slug of a plugin stored without a directory,
// such as hello.php. It is what path.Dir returns for a bare file name.
const NoDirectorySlug = "."

// PluginSlug extracts the plugin's directory from its stored file path:
// "akismet/akismet.php" becomes "akismet".
func PluginSlug(pluginFile string) string {
	return path.Dir(pluginFile)
}
