package request

import "strings"

// composeQuery joins the non-blank query args as key=value pairs. The result
// is "" when nothing survives, otherwise it starts with "?".
func composeQuery(args Args, escape func(string) string) string {
	var out strings.Builder
	args.Each(func(key string, value Value) bool {
		if IsBlank(value) {
			return true
		}
		if out.Len() == 0 {
			out.WriteByte('?')
		} else {
			out.WriteByte('&')
		}
		out.WriteString(escape(key))
		out.WriteByte('=')
		out.WriteString(escape(value.String()))
		return true
	})
	return out.String()
}
