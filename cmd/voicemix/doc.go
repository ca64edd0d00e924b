// SPDX-License-Identifier: EPL-2.0

// Command voicemix mixes a speech recording over background music.
//
//	voicemix serve                      run the HTTP service
//	voicemix mix --speech a --music b   mix two local files
//	voicemix config init                write a sample configuration
//	voicemix version
package main
